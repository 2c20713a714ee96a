package heatmap_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtstats/wtstats/internal/domain/heatmap"
)

func f(v float64) *float64 { return &v }

func TestScaledRange(t *testing.T) {
	Convey("Given a domain of [-5, 10] and the default band", t, func() {
		bk := heatmap.NewBucketer()
		d := heatmap.Domain{Min: -5, Max: 10}

		Convey("When the value normalizes to the centre", func() {
			Convey("Then it is neutral", func() {
				So(d.Normalize(2.5), ShouldAlmostEqual, 0.5, 1e-9)
				So(bk.Bucket(f(2.5), d, heatmap.ScaledRange), ShouldEqual, heatmap.Neutral)
			})
		})

		Convey("When the value is near the top of the domain", func() {
			Convey("Then it lands in the top positive tier", func() {
				So(d.Normalize(9), ShouldAlmostEqual, 0.9333, 1e-3)
				So(bk.Bucket(f(9), d, heatmap.ScaledRange), ShouldEqual, heatmap.Positive3)
			})
		})

		Convey("When values fall below the band", func() {
			d := heatmap.Domain{Min: 0, Max: 100}
			So(bk.Bucket(f(30), d, heatmap.ScaledRange), ShouldEqual, heatmap.Negative1)
			So(bk.Bucket(f(20), d, heatmap.ScaledRange), ShouldEqual, heatmap.Negative2)
			So(bk.Bucket(f(0), d, heatmap.ScaledRange), ShouldEqual, heatmap.Negative3)
		})

		Convey("When values sit on the band edges", func() {
			d := heatmap.Domain{Min: 0, Max: 100}
			So(bk.Bucket(f(40), d, heatmap.ScaledRange), ShouldEqual, heatmap.Neutral)
			So(bk.Bucket(f(60), d, heatmap.ScaledRange), ShouldEqual, heatmap.Neutral)
			So(bk.Bucket(f(61), d, heatmap.ScaledRange), ShouldEqual, heatmap.Positive1)
		})

		Convey("When values lie outside the domain", func() {
			So(bk.Bucket(f(1000), d, heatmap.ScaledRange), ShouldEqual, heatmap.Positive3)
			So(bk.Bucket(f(-1000), d, heatmap.ScaledRange), ShouldEqual, heatmap.Negative3)
		})

		Convey("When a narrower band is configured", func() {
			narrow := heatmap.NewBucketer(heatmap.WithBand(heatmap.NarrowBand))
			d := heatmap.Domain{Min: 0, Max: 100}
			So(bk.Bucket(f(57), d, heatmap.ScaledRange), ShouldEqual, heatmap.Neutral)
			So(narrow.Bucket(f(57), d, heatmap.ScaledRange), ShouldEqual, heatmap.Positive1)
			So(narrow.Band(), ShouldResemble, heatmap.NarrowBand)
		})

		Convey("When an invalid band is configured", func() {
			bad := heatmap.NewBucketer(heatmap.WithBand(heatmap.Band{Lo: 0.7, Hi: 0.2}))
			So(bad.Band(), ShouldResemble, heatmap.DefaultBand)
		})

		Convey("When the band is not finite", func() {
			nan := heatmap.Band{Lo: math.NaN(), Hi: math.NaN()}
			So(errors.Is(nan.Validate(), heatmap.ErrInvalidBand), ShouldBeTrue)
			So(errors.Is(heatmap.Band{Lo: 0.4, Hi: math.Inf(1)}.Validate(), heatmap.ErrInvalidBand), ShouldBeTrue)

			Convey("Then the Bucketer keeps the default band", func() {
				bk := heatmap.NewBucketer(heatmap.WithBand(nan))
				So(bk.Band(), ShouldResemble, heatmap.DefaultBand)
				So(bk.Bucket(f(2.5), d, heatmap.ScaledRange), ShouldEqual, heatmap.Neutral)
				So(bk.Bucket(f(9), d, heatmap.ScaledRange), ShouldEqual, heatmap.Positive3)
			})

			Convey("Then Classify reports every value as Unknown", func() {
				for _, v := range []float64{-5, 2.5, 9, 10} {
					So(heatmap.Classify(f(v), -5, 10, heatmap.ScaledRange, nan), ShouldEqual, heatmap.Unknown)
				}
				So(heatmap.Classify(f(9), -5, 10, heatmap.ScaledRange, heatmap.Band{Lo: 0.7, Hi: 0.2}), ShouldEqual, heatmap.Unknown)
				So(heatmap.Classify(f(9), -5, 10, heatmap.ScaledRange, heatmap.DefaultBand), ShouldEqual, heatmap.Positive3)
			})
		})
	})
}

func TestCenteredThreshold(t *testing.T) {
	Convey("Given centered-threshold classification", t, func() {
		bk := heatmap.NewBucketer()
		d := heatmap.Domain{Min: -30, Max: 30}

		cases := []struct {
			value float64
			want  heatmap.Bucket
		}{
			{0, heatmap.Neutral},
			{0.1, heatmap.Neutral},
			{-0.1, heatmap.Neutral},
			{0.11, heatmap.Positive1},
			{5, heatmap.Positive1},
			{5.01, heatmap.Positive2},
			{10, heatmap.Positive2},
			{10.5, heatmap.Positive3},
			{-3, heatmap.Negative1},
			{-7, heatmap.Negative2},
			{-25, heatmap.Negative3},
		}
		for _, tc := range cases {
			So(bk.Bucket(f(tc.value), d, heatmap.CenteredThreshold), ShouldEqual, tc.want)
		}

		Convey("When custom cut points are supplied", func() {
			custom := heatmap.NewBucketer(heatmap.WithCenteredCuts(1, 3, 6))
			So(custom.Bucket(f(0.5), d, heatmap.CenteredThreshold), ShouldEqual, heatmap.Neutral)
			So(custom.Bucket(f(4), d, heatmap.CenteredThreshold), ShouldEqual, heatmap.Positive2)
			So(custom.Bucket(f(-7), d, heatmap.CenteredThreshold), ShouldEqual, heatmap.Negative3)
		})
	})
}

func TestUnknownAndDegenerate(t *testing.T) {
	Convey("Given edge inputs", t, func() {
		bk := heatmap.NewBucketer()

		Convey("When the value is missing", func() {
			Convey("Then it is Unknown, not Neutral", func() {
				got := bk.Bucket(nil, heatmap.Domain{Min: 0, Max: 1}, heatmap.ScaledRange)
				So(got, ShouldEqual, heatmap.Unknown)
				So(got, ShouldNotEqual, heatmap.Neutral)
				So(bk.Bucket(f(math.NaN()), heatmap.Domain{Min: 0, Max: 1}, heatmap.ScaledRange), ShouldEqual, heatmap.Unknown)
			})
		})

		Convey("When min equals max", func() {
			Convey("Then every value is neutral in both modes", func() {
				for _, v := range []float64{-100, -5, 0, 0.2, 7, 42, 1e9} {
					So(heatmap.Classify(f(v), 3, 3, heatmap.ScaledRange, heatmap.DefaultBand), ShouldEqual, heatmap.Neutral)
					So(heatmap.Classify(f(v), 3, 3, heatmap.CenteredThreshold, heatmap.DefaultBand), ShouldEqual, heatmap.Neutral)
				}
			})
		})
	})
}

func TestMonotonicIntensity(t *testing.T) {
	Convey("Given values moving away from the centre of the domain", t, func() {
		for _, mode := range []heatmap.Mode{heatmap.ScaledRange, heatmap.CenteredThreshold} {
			for _, band := range []heatmap.Band{heatmap.DefaultBand, heatmap.NarrowBand} {
				d := heatmap.Domain{Min: -20, Max: 20}
				bk := heatmap.NewBucketer(heatmap.WithBand(band))
				centre := (d.Min + d.Max) / 2

				Convey("Then intensity never decreases ("+mode.String()+", band "+band.String()+")", func() {
					for _, dir := range []float64{1, -1} {
						prev := 0
						for step := 0.0; step <= 25; step += 0.25 {
							b := bk.Bucket(f(centre+dir*step), d, mode)
							So(b.Intensity(), ShouldBeGreaterThanOrEqualTo, prev)
							if b != heatmap.Neutral {
								So(b.Sign(), ShouldEqual, int(dir))
							}
							prev = b.Intensity()
						}
					}
				})
			}
		}
	})
}

func TestDomainAndBand(t *testing.T) {
	Convey("Given samples with gaps", t, func() {
		d, ok := heatmap.DomainOf([]*float64{nil, f(4), f(-2), nil, f(9)})
		So(ok, ShouldBeTrue)
		So(d, ShouldResemble, heatmap.Domain{Min: -2, Max: 9})

		_, ok = heatmap.DomainOf([]*float64{nil, nil})
		So(ok, ShouldBeFalse)
	})

	Convey("Given band strings", t, func() {
		b, err := heatmap.ParseBand("0.45, 0.55")
		So(err, ShouldBeNil)
		So(b, ShouldResemble, heatmap.NarrowBand)
		So(b.String(), ShouldEqual, "0.45,0.55")

		for _, bad := range []string{"0.5", "a,b", "0.6,0.4", "-0.1,0.5", "0.5,1.2", "NaN,NaN", "NaN,0.5", "0.4,Inf", "-Inf,0.5"} {
			_, err := heatmap.ParseBand(bad)
			So(errors.Is(err, heatmap.ErrInvalidBand), ShouldBeTrue)
		}
	})

	Convey("Given mode strings", t, func() {
		m, err := heatmap.ParseMode("centered-threshold")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, heatmap.CenteredThreshold)
		_, err = heatmap.ParseMode("log")
		So(errors.Is(err, heatmap.ErrUnknownMode), ShouldBeTrue)
	})
}

func TestGrid(t *testing.T) {
	Convey("Given a small matrix", t, func() {
		bk := heatmap.NewBucketer()
		rows := []heatmap.Axis{{ID: 1, Label: "Alex"}, {ID: 2, Label: "Blake"}}
		cols := []heatmap.Axis{{ID: 2021, Label: "2021"}, {ID: 2022, Label: "2022"}}
		g := bk.Build("points_for", heatmap.ScaledRange, rows, cols, [][]*float64{
			{f(1000), f(1500)},
			{nil, f(2000)},
		})

		Convey("Then the domain spans the non-nil values", func() {
			So(*g.Domain, ShouldResemble, heatmap.Domain{Min: 1000, Max: 2000})
			So(*g.Band, ShouldResemble, heatmap.DefaultBand)
		})

		Convey("And each cell is classified", func() {
			So(g.Cells[0][0].Bucket, ShouldEqual, heatmap.Negative3)
			So(g.Cells[0][1].Bucket, ShouldEqual, heatmap.Neutral)
			So(g.Cells[1][0].Bucket, ShouldEqual, heatmap.Unknown)
			So(g.Cells[1][1].Bucket, ShouldEqual, heatmap.Positive3)
			So(*g.Cells[0][1].Normalized, ShouldAlmostEqual, 0.5, 1e-9)
			So(g.Counts()[heatmap.Unknown], ShouldEqual, 1)
		})

		Convey("And buckets serialize by name", func() {
			raw, err := json.Marshal(g.Cells[1][1])
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"bucket":"positive-3"`)
			So(g.Mode, ShouldEqual, "scaled-range")
		})
	})
}
