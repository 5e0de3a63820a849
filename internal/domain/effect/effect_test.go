package effect_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/syamnaths/Action-cam/internal/domain/effect"
)

func TestFilterSettings(t *testing.T) {
	Convey("Given slider values", t, func() {
		f := effect.FilterSettings{Brightness: 110, Contrast: 95, Saturation: 120, Sepia: 20, Hue: -15}

		Convey("Then CSS should render every filter in order", func() {
			So(f.CSS(), ShouldEqual, "brightness(110%) contrast(95%) saturate(120%) sepia(20%) hue-rotate(-15deg)")
		})

		Convey("When building a preset", func() {
			e, err := effect.NewPreset("  Warm Sunset ", f)

			Convey("Then it should be a colour grading effect", func() {
				So(err, ShouldBeNil)
				So(e.Name, ShouldEqual, "Warm Sunset")
				So(e.Kind, ShouldEqual, effect.KindColorGrading)
				So(e.CSSFilter, ShouldEqual, f.CSS())
			})
		})

		Convey("When the preset has no name", func() {
			_, err := effect.NewPreset("", f)
			So(errors.Is(err, effect.ErrInvalidEffect), ShouldBeTrue)
		})

		Convey("When a percentage is negative", func() {
			f.Contrast = -1
			_, err := effect.NewPreset("bad", f)
			So(errors.Is(err, effect.ErrInvalidEffect), ShouldBeTrue)
		})

		Convey("Then defaults should be neutral", func() {
			So(effect.DefaultFilters().CSS(), ShouldEqual, "brightness(100%) contrast(100%) saturate(100%) sepia(0%) hue-rotate(0deg)")
		})
	})
}

func TestEffect_Validate(t *testing.T) {
	Convey("Given effects of each kind", t, func() {
		grading := effect.Effect{Name: "Noir", Kind: effect.KindColorGrading, CSSFilter: "grayscale(100%)"}
		zoom := effect.Effect{Name: "Slow Push", Kind: effect.KindZoom, From: 1, To: 1.3, DurationMS: 8000, TimingFunction: "ease-in"}

		So(grading.Validate(), ShouldBeNil)
		So(zoom.Validate(), ShouldBeNil)

		Convey("When a zoom has no duration", func() {
			zoom.DurationMS = 0
			So(errors.Is(zoom.Validate(), effect.ErrInvalidEffect), ShouldBeTrue)
		})

		Convey("When a grading has no filter", func() {
			grading.CSSFilter = ""
			So(errors.Is(grading.Validate(), effect.ErrInvalidEffect), ShouldBeTrue)
		})

		Convey("When the kind is unknown", func() {
			grading.Kind = "BLUR"
			So(errors.Is(grading.Validate(), effect.ErrUnknownKind), ShouldBeTrue)
		})
	})
}

func TestPresent(t *testing.T) {
	Convey("Given the presentation mapping", t, func() {
		Convey("When no effect is selected", func() {
			So(effect.Present(nil), ShouldResemble, effect.None)
		})

		Convey("When a colour grading is selected", func() {
			p := effect.Present(&effect.Effect{Name: "Noir", Kind: effect.KindColorGrading, CSSFilter: "grayscale(100%)"})
			So(p.Filter, ShouldEqual, "grayscale(100%)")
			So(p.Overlay, ShouldEqual, "Noir")
			So(p.Animation, ShouldBeEmpty)
		})

		Convey("When a zoom is selected", func() {
			p := effect.Present(&effect.Effect{Name: "Push", Kind: effect.KindZoom, From: 1, To: 1.5, DurationMS: 4000})
			So(p.Animation, ShouldEqual, "slowZoom 4000ms linear forwards")
			So(p.Keyframes, ShouldContainSubstring, "scale(1.5)")
			So(p.Overlay, ShouldEqual, "Push")
		})
	})
}
