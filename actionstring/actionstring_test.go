package actionstring

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/dlgrind/action"
)

func TestPushCoalescing(t *testing.T) {
	Convey("Given an empty action string", t, func() {
		var s ActionString

		Convey("Pushing X five times yields a single C5 fragment, not five", func() {
			for i := 0; i < 5; i++ {
				s.Push(action.X)
			}
			So(s.Get(0), ShouldEqual, C5)
			So(s.Get(1), ShouldEqual, Nil)
		})

		Convey("Pushing X then FS folds into CkFS", func() {
			s.Push(action.X)
			s.Push(action.X)
			s.Push(action.FS)
			So(s.Get(0), ShouldEqual, C2FS)
			So(s.Get(1), ShouldEqual, Nil)
		})

		Convey("Pushing a skill never coalesces", func() {
			s.Push(action.X)
			s.Push(action.S1)
			So(s.Get(0), ShouldEqual, C1)
			So(s.Get(1), ShouldEqual, S1)
		})

		Convey("A sixth X after C5FS starts a new combo run", func() {
			for i := 0; i < 5; i++ {
				s.Push(action.X)
			}
			s.Push(action.FS)
			s.Push(action.X)
			So(s.Get(0), ShouldEqual, C5FS)
			So(s.Get(1), ShouldEqual, C1)
		})
	})
}

func TestLexicographicPreference(t *testing.T) {
	Convey("Given two transpositions of the same total combo length", t, func() {
		var a, b ActionString
		// a: c1fs c5fs
		a.Push(action.X)
		a.Push(action.FS)
		for i := 0; i < 5; i++ {
			a.Push(action.X)
		}
		a.Push(action.FS)

		// b: c5fs c1fs
		for i := 0; i < 5; i++ {
			b.Push(action.X)
		}
		b.Push(action.FS)
		b.Push(action.X)
		b.Push(action.FS)

		Convey("The short-combo-first sequence sorts before the front-loaded one", func() {
			So(a.Less(b), ShouldBeTrue)
			So(b.Less(a), ShouldBeFalse)
		})
	})
}

func TestStringRendering(t *testing.T) {
	Convey("Given a short sequence", t, func() {
		var s ActionString
		s.Push(action.X)
		s.Push(action.X)
		s.Push(action.S2)

		Convey("String renders fragments in order, space separated", func() {
			So(s.String(), ShouldEqual, "c2 s2")
		})
	})
}
