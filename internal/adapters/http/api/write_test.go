package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteJSON(t *testing.T) {
	Convey("Given a response recorder", t, func() {
		rec := httptest.NewRecorder()

		Convey("When the value encodes", func() {
			writeJSON(rec, http.StatusCreated, map[string]float64{"score": 84})

			Convey("Then the status and body are written", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				So(rec.Body.String(), ShouldEqual, "{\"score\":84}\n")
			})
		})

		Convey("When the value holds a NaN", func() {
			writeJSON(rec, http.StatusOK, map[string]float64{"score": math.NaN()})

			var out errorResponse
			So(json.Unmarshal(rec.Body.Bytes(), &out), ShouldBeNil)

			Convey("Then a 500 internal_error is written instead of an empty 200", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(out.Code, ShouldEqual, "internal_error")
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
			})
		})
	})
}
