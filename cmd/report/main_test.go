package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

const snapshotJSON = `{"target_grade":90,"categories":[` +
	`{"id":"hw","name":"Homework","weight":40,"assignments":[{"id":"a","score_earned":90,"score_possible":100}]},` +
	`{"id":"ex","name":"Exams","weight":60,"assignments":[{"id":"b","score_possible":100}]}]}`

func execute(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFileCommand(t *testing.T) {
	convey.Convey("Given a snapshot file", t, func() {
		path := filepath.Join(t.TempDir(), "physics.json")
		convey.So(os.WriteFile(path, []byte(snapshotJSON), 0o600), convey.ShouldBeNil)

		convey.Convey("When the file command runs", func() {
			out, err := execute("file", path)

			convey.Convey("Then the report is titled after the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "physics")
				convey.So(out, convey.ShouldContainSubstring, "90.0%")
				convey.So(out, convey.ShouldNotContainSubstring, "What if")
			})
		})

		convey.Convey("When a what-if score is given", func() {
			out, err := execute("file", path, "--score", "80", "--title", "Physics 101")

			convey.Convey("Then the projection is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Physics 101")
				convey.So(out, convey.ShouldContainSubstring, "84.0% (B)")
			})
		})

		convey.Convey("When no path is given", func() {
			_, err := execute("file")

			convey.Convey("Then the command fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestCourseCommand(t *testing.T) {
	convey.Convey("Given a server with a stored course", t, func() {
		var snap model.Snapshot
		convey.So(json.Unmarshal([]byte(snapshotJSON), &snap), convey.ShouldBeNil)
		course := model.Course{ID: "c-1", Name: "Chemistry", Snapshot: snap}

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/courses/c-1" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(course)
		}))
		defer srv.Close()

		convey.Convey("When the course command runs", func() {
			out, err := execute("course", "c-1", "--url", srv.URL, "-v")

			convey.Convey("Then the course is reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Chemistry")
				convey.So(out, convey.ShouldContainSubstring, "Exams")
			})
		})

		convey.Convey("When the course is unknown", func() {
			_, err := execute("course", "missing", "--url", srv.URL)

			convey.Convey("Then the command fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "course not found")
			})
		})
	})
}
