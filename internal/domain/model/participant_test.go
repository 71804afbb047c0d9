package model_test

import (
	"testing"
	"time"

	model "github.com/okian/splitpool/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParticipant(t *testing.T) {
	convey.Convey("Given a Participant struct", t, func() {
		convey.Convey("When creating a participant with zero values", func() {
			p := model.Participant{}

			convey.Convey("Then paid should default to zero", func() {
				convey.So(p.ID, convey.ShouldEqual, "")
				convey.So(p.Name, convey.ShouldEqual, "")
				convey.So(p.Paid, convey.ShouldEqual, 0.0)
			})
		})

		convey.Convey("When embedding it in a balance", func() {
			b := model.Balance{
				Participant: model.Participant{ID: "p1", Name: "Alice", Paid: 90},
				Balance:     50,
			}

			convey.Convey("Then participant fields should be promoted", func() {
				convey.So(b.ID, convey.ShouldEqual, "p1")
				convey.So(b.Name, convey.ShouldEqual, "Alice")
				convey.So(b.Paid, convey.ShouldEqual, 90.0)
				convey.So(b.Balance, convey.ShouldEqual, 50.0)
			})
		})
	})
}

func TestSettlementString(t *testing.T) {
	convey.Convey("Given a settlement", t, func() {
		s := model.Settlement{From: "Bob", To: "Alice", Amount: 40}

		convey.Convey("Then it should render as owes text with two decimals", func() {
			convey.So(s.String(), convey.ShouldEqual, "Bob owes Alice 40.00")
		})

		convey.Convey("When the amount has cents", func() {
			s.Amount = 3.5
			convey.So(s.String(), convey.ShouldEqual, "Bob owes Alice 3.50")
		})
	})
}

func TestGroupClone(t *testing.T) {
	convey.Convey("Given a group with participants", t, func() {
		now := time.Now()
		g := model.Group{
			ID:           "g1",
			Name:         "Trip",
			Participants: []model.Participant{{ID: "p1", Name: "A", Paid: 10}},
			CreatedAt:    now,
			UpdatedAt:    now,
			Version:      3,
		}

		convey.Convey("When cloning it", func() {
			c := g.Clone()
			c.Participants[0].Paid = 99

			convey.Convey("Then the original participants should be untouched", func() {
				convey.So(g.Participants[0].Paid, convey.ShouldEqual, 10.0)
				convey.So(c.ID, convey.ShouldEqual, "g1")
				convey.So(c.Version, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When cloning a group without participants", func() {
			c := model.Group{ID: "empty"}.Clone()
			convey.So(c.Participants, convey.ShouldBeNil)
		})
	})
}
