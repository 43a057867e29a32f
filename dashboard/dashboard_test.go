package dashboard

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/dlgrind/actionstring"
	"github.com/niceyeti/dlgrind/dp"
)

func TestPublishTracksBestSoFar(t *testing.T) {
	Convey("Given a fresh dashboard", t, func() {
		d := New(":0")

		Convey("Publishing a milestone raises BestSoFar", func() {
			d.Publish(dp.Milestone{Frame: 10, Damage: 500, Sequence: actionstring.ActionString{}})
			So(d.BestSoFar(), ShouldEqual, float64(500))
		})

		Convey("A lower-damage milestone never lowers BestSoFar", func() {
			d.Publish(dp.Milestone{Frame: 10, Damage: 500})
			d.Publish(dp.Milestone{Frame: 20, Damage: 100})
			So(d.BestSoFar(), ShouldEqual, float64(500))
		})

		Convey("A full update channel drops the update instead of blocking", func() {
			for i := 0; i < 5; i++ {
				d.Publish(dp.Milestone{Frame: i, Damage: float64(i)})
			}
			So(d.BestSoFar(), ShouldEqual, float64(4))
		})
	})
}
