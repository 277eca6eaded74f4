package repository

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/woolshed/flockmark/internal/domain/model"
)

func herd() []model.ScoredAnimal {
	return []model.ScoredAnimal{
		{Animal: model.Animal{ID: "id-a", EID: "E-A", VID: "V-A"}, Mark: 6, Classification: "Flock"},
		{Animal: model.Animal{ID: "id-b", EID: "E-B"}, Mark: 9, Classification: "Stud"},
		{Animal: model.Animal{ID: "id-c", Tattoo: "T-C"}, Mark: 6, Classification: "Flock"},
	}
}

func TestMemStoreReplaceAndAll(t *testing.T) {
	Convey("Given a store with one run loaded", t, func() {
		ctx := context.Background()
		store := NewMemStore()
		So(store.Replace(ctx, herd()), ShouldBeNil)

		Convey("All preserves creation order", func() {
			all := store.All(ctx)
			So(all, ShouldHaveLength, 3)
			So(all[0].ID, ShouldEqual, "id-a")
			So(all[2].ID, ShouldEqual, "id-c")
		})

		Convey("Count matches", func() {
			So(store.Count(ctx), ShouldEqual, 3)
		})

		Convey("Replace swaps the whole run", func() {
			So(store.Replace(ctx, herd()[:1]), ShouldBeNil)
			So(store.Count(ctx), ShouldEqual, 1)

			_, err := store.Get(ctx, "id-b")
			So(err, ShouldWrap, ErrNotFound)
		})
	})
}

func TestMemStoreTopN(t *testing.T) {
	Convey("Given a store with marks 6, 9, 6", t, func() {
		ctx := context.Background()
		store := NewMemStore()
		So(store.Replace(ctx, herd()), ShouldBeNil)

		Convey("TopN orders by mark, ties by creation order", func() {
			top, err := store.TopN(ctx, 3)
			So(err, ShouldBeNil)
			So(top[0].ID, ShouldEqual, "id-b")
			So(top[1].ID, ShouldEqual, "id-a")
			So(top[2].ID, ShouldEqual, "id-c")
		})

		Convey("TopN clamps to the herd size", func() {
			top, err := store.TopN(ctx, 100)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 3)
		})

		Convey("A non-positive limit is rejected", func() {
			_, err := store.TopN(ctx, 0)
			So(err, ShouldWrap, ErrInvalidLimit)
		})
	})
}

func TestMemStoreGet(t *testing.T) {
	Convey("Given a store with one run loaded", t, func() {
		ctx := context.Background()
		store := NewMemStore()
		So(store.Replace(ctx, herd()), ShouldBeNil)

		Convey("Lookup works by internal id", func() {
			a, err := store.Get(ctx, "id-b")
			So(err, ShouldBeNil)
			So(a.EID, ShouldEqual, "E-B")
		})

		Convey("Lookup works by any identifier, tattoo included", func() {
			a, err := store.Get(ctx, "V-A")
			So(err, ShouldBeNil)
			So(a.ID, ShouldEqual, "id-a")

			a, err = store.Get(ctx, "T-C")
			So(err, ShouldBeNil)
			So(a.ID, ShouldEqual, "id-c")
		})

		Convey("Unknown keys report not found", func() {
			_, err := store.Get(ctx, "nope")
			So(err, ShouldWrap, ErrNotFound)
		})
	})
}

func TestMemStoreClassifications(t *testing.T) {
	Convey("Classification counts cover the whole run", t, func() {
		ctx := context.Background()
		store := NewMemStore()
		So(store.Replace(ctx, herd()), ShouldBeNil)

		So(store.Classifications(ctx), ShouldResemble, map[string]int{
			"Stud":  1,
			"Flock": 2,
		})
	})
}
