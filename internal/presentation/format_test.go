package presentation_test

import (
	"testing"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/presentation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfidencePercent(t *testing.T) {
	Convey("Given confidence scores", t, func() {
		So(presentation.ConfidencePercent(0.8234), ShouldEqual, "82.3%")
		So(presentation.ConfidencePercent(1), ShouldEqual, "100.0%")
		So(presentation.ConfidencePercent(0), ShouldEqual, "0.0%")
		So(presentation.ConfidencePercent(0.05), ShouldEqual, "5.0%")
	})
}

func TestMedalLabels(t *testing.T) {
	Convey("Given the three medal types", t, func() {
		So(presentation.MedalLabel(model.Gold), ShouldEqual, "Or")
		So(presentation.MedalLabel(model.Silver), ShouldEqual, "Argent")
		So(presentation.MedalLabel(model.Bronze), ShouldEqual, "Bronze")
		So(presentation.MedalClass(model.Gold), ShouldEqual, "medal-gold")

		Convey("Unknown types pass through", func() {
			So(presentation.MedalLabel("PLATINUM"), ShouldEqual, "PLATINUM")
			So(presentation.MedalClass("PLATINUM"), ShouldEqual, "medal-other")
		})
	})
}

func TestSeasons(t *testing.T) {
	Convey("Given game seasons", t, func() {
		So(presentation.SeasonLabel(model.Summer), ShouldEqual, "Été")
		So(presentation.SeasonLabel(model.Winter), ShouldEqual, "Hiver")
		So(presentation.SeasonClass(model.Winter), ShouldEqual, "season-winter")
		So(presentation.SeasonClass(model.Summer), ShouldEqual, "season-summer")
	})
}

func TestRankAndOrNA(t *testing.T) {
	Convey("Given list positions", t, func() {
		So(presentation.Rank(1, 0), ShouldEqual, 1)
		So(presentation.Rank(2, 4), ShouldEqual, 105)
		So(presentation.Rank(0, 0), ShouldEqual, 1)
	})

	Convey("Given optional values", t, func() {
		year := 1988
		zero := 0
		game := "Paris 2024"
		empty := ""
		var nilInt *int

		So(presentation.OrNA(&year), ShouldEqual, "1988")
		So(presentation.OrNA(&zero), ShouldEqual, "N/A")
		So(presentation.OrNA(nilInt), ShouldEqual, "N/A")
		So(presentation.OrNA(&game), ShouldEqual, "Paris 2024")
		So(presentation.OrNA(&empty), ShouldEqual, "N/A")
		So(presentation.OrNA(""), ShouldEqual, "N/A")
		So(presentation.OrNA(nil), ShouldEqual, "N/A")
		So(presentation.OrNA(3), ShouldEqual, "3")
		So(presentation.OrNA(2.5), ShouldEqual, "2.5")
	})
}

func TestLocale(t *testing.T) {
	Convey("Given the French locale", t, func() {
		fr, err := presentation.NewLocale("fr-FR")
		So(err, ShouldBeNil)

		So(fr.Lang(), ShouldEqual, "fr")
		So(fr.DateLong("2024-07-26T00:00:00Z"), ShouldEqual, "26 juillet 2024")
		So(fr.DateLong("2024-08-11"), ShouldEqual, "11 août 2024")
		So(fr.DateShort("2024-07-26T20:00:00"), ShouldEqual, "26/07/2024")

		Convey("Unparseable dates are shown as received", func() {
			So(fr.DateLong("bientôt"), ShouldEqual, "bientôt")
			So(fr.DateShort(""), ShouldEqual, "")
		})

		Convey("Numbers keep their digits", func() {
			n := fr.Number(75904)
			So(n, ShouldStartWith, "75")
			So(n, ShouldEndWith, "904")
		})
	})

	Convey("Given an English locale", t, func() {
		en, err := presentation.NewLocale("en-US")
		So(err, ShouldBeNil)

		So(en.DateLong("2024-07-26T00:00:00Z"), ShouldEqual, "July 26, 2024")
		So(en.DateShort("2024-07-26"), ShouldEqual, "07/26/2024")
		So(en.Number(75904), ShouldEqual, "75,904")
	})

	Convey("Given a malformed tag", t, func() {
		_, err := presentation.NewLocale("not a locale!")
		So(err, ShouldNotBeNil)
	})
}
