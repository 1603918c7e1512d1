package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/gradepilot/internal/adapters/repository"
	"github.com/okian/gradepilot/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock advances one second per call.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
}

func sampleCourse(id, name string) model.Course {
	s := model.NewSnapshot(model.DefaultTargetGrade, model.DefaultScale())
	s.Categories = append(s.Categories, model.Category{
		ID:     "hw",
		Name:   "Homework",
		Weight: 40,
		Assignments: []model.Assignment{
			{ID: "hw1", Name: "HW 1", ScoreEarned: model.Score(9), ScorePossible: 10},
			{ID: "hw2", Name: "HW 2", ScorePossible: 10},
		},
	})
	return model.Course{ID: id, Name: name, Snapshot: s}
}

type backend struct {
	name string
	open func(t *testing.T, clock *fakeClock) repository.Store
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			open: func(_ *testing.T, clock *fakeClock) repository.Store {
				return repository.NewMemoryStore(repository.WithClock(clock.Now))
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T, clock *fakeClock) repository.Store {
				path := filepath.Join(t.TempDir(), "courses.db")
				s, err := repository.NewSQLiteStore(context.Background(), path, repository.WithClock(clock.Now))
				if err != nil {
					t.Fatalf("open sqlite store: %v", err)
				}
				return s
			},
		},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		Convey("Given a "+b.name+" store", t, func() {
			store := b.open(t, newClock())
			Reset(func() { _ = store.Close() })

			Convey("When a course is created", func() {
				created, err := store.Create(ctx, sampleCourse("c1", "Physics"))
				So(err, ShouldBeNil)

				Convey("Then timestamps are set", func() {
					So(created.CreatedAt.IsZero(), ShouldBeFalse)
					So(created.UpdatedAt.Equal(created.CreatedAt), ShouldBeTrue)
					So(store.Count(ctx), ShouldEqual, 1)
				})

				Convey("Then Get returns the same snapshot", func() {
					got, err := store.Get(ctx, "c1")
					So(err, ShouldBeNil)
					So(got.Name, ShouldEqual, "Physics")
					So(got.Snapshot.TargetGrade, ShouldEqual, 90)
					So(got.Snapshot.GradeScale, ShouldResemble, model.DefaultScale())
					So(got.Snapshot.Categories, ShouldHaveLength, 1)
					hw := got.Snapshot.Categories[0].Assignments
					So(*hw[0].ScoreEarned, ShouldEqual, 9)
					So(hw[1].ScoreEarned, ShouldBeNil)
				})

				Convey("Then creating the same id again conflicts", func() {
					_, err := store.Create(ctx, sampleCourse("c1", "Again"))
					So(errors.Is(err, repository.ErrConflict), ShouldBeTrue)
				})

				Convey("Then mutating the returned value does not leak into the store", func() {
					got, _ := store.Get(ctx, "c1")
					got.Snapshot.Categories[0].Weight = 99
					again, _ := store.Get(ctx, "c1")
					So(again.Snapshot.Categories[0].Weight, ShouldEqual, 40)
				})

				Convey("And it is updated", func() {
					updated, err := store.Update(ctx, "c1", func(c *model.Course) error {
						c.Snapshot.TargetGrade = 85
						c.Snapshot.Categories[0].Assignments[1].ScoreEarned = model.Score(7)
						c.ID = "hijack"
						return nil
					})
					So(err, ShouldBeNil)

					Convey("Then the change is persisted under the same id", func() {
						So(updated.ID, ShouldEqual, "c1")
						So(updated.UpdatedAt.After(updated.CreatedAt), ShouldBeTrue)

						got, err := store.Get(ctx, "c1")
						So(err, ShouldBeNil)
						So(got.Snapshot.TargetGrade, ShouldEqual, 85)
						So(*got.Snapshot.Categories[0].Assignments[1].ScoreEarned, ShouldEqual, 7)
						_, err = store.Get(ctx, "hijack")
						So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
					})
				})

				Convey("And the mutator fails", func() {
					boom := errors.New("boom")
					_, err := store.Update(ctx, "c1", func(c *model.Course) error {
						c.Snapshot.TargetGrade = 10
						return boom
					})

					Convey("Then the error is returned and nothing changes", func() {
						So(errors.Is(err, boom), ShouldBeTrue)
						got, _ := store.Get(ctx, "c1")
						So(got.Snapshot.TargetGrade, ShouldEqual, 90)
					})
				})

				Convey("And it is deleted", func() {
					So(store.Delete(ctx, "c1"), ShouldBeNil)

					Convey("Then it is gone", func() {
						_, err := store.Get(ctx, "c1")
						So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
						So(store.Count(ctx), ShouldEqual, 0)
						So(errors.Is(store.Delete(ctx, "c1"), repository.ErrNotFound), ShouldBeTrue)
					})
				})
			})

			Convey("When several courses are created", func() {
				for _, c := range []model.Course{sampleCourse("b", "Biology"), sampleCourse("a", "Art"), sampleCourse("c", "Chem")} {
					_, err := store.Create(ctx, c)
					So(err, ShouldBeNil)
				}

				Convey("Then List returns them in creation order", func() {
					list, err := store.List(ctx)
					So(err, ShouldBeNil)
					So(list, ShouldHaveLength, 3)
					So(list[0].ID, ShouldEqual, "b")
					So(list[1].ID, ShouldEqual, "a")
					So(list[2].ID, ShouldEqual, "c")
					So(list[1].Name, ShouldEqual, "Art")
				})
			})

			Convey("When the store is empty", func() {
				Convey("Then List returns an empty slice", func() {
					list, err := store.List(ctx)
					So(err, ShouldBeNil)
					So(list, ShouldNotBeNil)
					So(list, ShouldBeEmpty)
				})

				Convey("Then unknown ids are not found", func() {
					_, err := store.Get(ctx, "nope")
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
					_, err = store.Update(ctx, "nope", func(*model.Course) error { return nil })
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				})

				Convey("Then an empty id is rejected", func() {
					_, err := store.Create(ctx, sampleCourse("", "x"))
					So(errors.Is(err, repository.ErrInvalidID), ShouldBeTrue)
				})
			})
		})
	}
}

func TestMemoryStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory store with one course", t, func() {
		store := repository.NewMemoryStore()
		_, err := store.Create(ctx, sampleCourse("c1", "Physics"))
		So(err, ShouldBeNil)

		Convey("When many goroutines append a category concurrently", func() {
			var wg sync.WaitGroup
			for range 25 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = store.Update(ctx, "c1", func(c *model.Course) error {
						c.Snapshot.Categories = append(c.Snapshot.Categories, model.Category{Weight: 1})
						return nil
					})
				}()
			}
			wg.Wait()

			Convey("Then no update is lost", func() {
				got, err := store.Get(ctx, "c1")
				So(err, ShouldBeNil)
				So(got.Snapshot.Categories, ShouldHaveLength, 26)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)

			Convey("Then operations fail with ErrClosed", func() {
				_, err := store.Get(ctx, "c1")
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
			})
		})
	})
}

func TestSQLiteStorePersistence(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sqlite database on disk", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "gp.db")
		store, err := repository.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)

		v, err := store.Version(ctx)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, repository.SchemaVersion())

		_, err = store.Create(ctx, sampleCourse("c1", "Physics"))
		So(err, ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		Convey("When it is reopened", func() {
			reopened, err := repository.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			Reset(func() { _ = reopened.Close() })

			Convey("Then the course survives and migrations are not reapplied", func() {
				got, err := reopened.Get(ctx, "c1")
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Physics")
				So(reopened.Count(ctx), ShouldEqual, 1)
			})
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := repository.NewSQLiteStore(ctx, "")

		Convey("Then opening fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
