package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	service "github.com/okian/splitpool/internal/app"
	"github.com/okian/splitpool/internal/adapters/repository"
	"github.com/okian/splitpool/internal/domain/model"
	"github.com/okian/splitpool/internal/domain/settlement"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceGroups(t *testing.T) {
	Convey("Given a started service with a group", t, func() {
		svc := service.New()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		g, summary, err := svc.CreateGroup(ctx, "  Trip  ")
		So(err, ShouldBeNil)

		Convey("Then the new group is empty and settled", func() {
			So(g.Name, ShouldEqual, "Trip")
			So(g.ID, ShouldNotBeEmpty)
			So(summary.Count, ShouldEqual, 0)
			So(summary.Harmony, ShouldEqual, 100)
		})

		Convey("When participants are added", func() {
			_, alice, s1, err := svc.AddParticipant(ctx, g.ID, "Alice", 90)
			So(err, ShouldBeNil)
			So(s1.Count, ShouldEqual, 1)
			So(s1.Settlements, ShouldBeEmpty)

			_, bob, _, err := svc.AddParticipant(ctx, g.ID, "Bob", 0)
			So(err, ShouldBeNil)
			g2, carol, s3, err := svc.AddParticipant(ctx, g.ID, "Carol", 30)
			So(err, ShouldBeNil)

			Convey("Then the settlement is recomputed on every change", func() {
				So(g2.Version, ShouldEqual, 4)
				So(s3.TotalPaid, ShouldEqual, 120)
				So(len(s3.Settlements), ShouldEqual, 2)
				So(s3.Settlements[0].FromID, ShouldEqual, bob.ID)
				So(s3.Settlements[0].ToID, ShouldEqual, alice.ID)
				So(s3.Settlements[0].Amount, ShouldEqual, 40)
				So(s3.Settlements[1].FromID, ShouldEqual, carol.ID)
				So(s3.Settlements[1].Amount, ShouldEqual, 10)
			})

			Convey("And editing a payment changes the plan", func() {
				paid := 40.0
				_, s, err := svc.UpdateParticipant(ctx, g.ID, bob.ID, repository.ParticipantPatch{Paid: &paid})
				So(err, ShouldBeNil)
				So(s.TotalPaid, ShouldEqual, 160)
				So(len(s.Settlements), ShouldEqual, 2)
				So(s.Settlements[0].String(), ShouldEqual, "Carol owes Alice 23.33")
				So(s.Settlements[1].String(), ShouldEqual, "Bob owes Alice 13.33")
			})

			Convey("And renaming keeps the amounts", func() {
				name := "Robert"
				_, s, err := svc.UpdateParticipant(ctx, g.ID, bob.ID, repository.ParticipantPatch{Name: &name})
				So(err, ShouldBeNil)
				So(s.Settlements[0].From, ShouldEqual, "Robert")
				So(s.Settlements[0].Amount, ShouldEqual, 40)
			})

			Convey("And a negative edit is rejected without changing the group", func() {
				paid := -1.0
				_, _, err := svc.UpdateParticipant(ctx, g.ID, bob.ID, repository.ParticipantPatch{Paid: &paid})
				So(errors.Is(err, settlement.ErrInvalidAmount), ShouldBeTrue)

				again, _, err := svc.GetGroup(ctx, g.ID, "")
				So(err, ShouldBeNil)
				So(again.Version, ShouldEqual, 4)
			})

			Convey("And removing a participant recomputes the plan", func() {
				_, s, err := svc.RemoveParticipant(ctx, g.ID, carol.ID)
				So(err, ShouldBeNil)
				So(s.Count, ShouldEqual, 2)
				So(s.PerPersonShare, ShouldEqual, 45)
				So(s.Settlements[0].String(), ShouldEqual, "Bob owes Alice 45.00")
			})

			Convey("And the group settlement can be read in Arabic", func() {
				_, _, _, err := svc.AddParticipant(ctx, g.ID, "", 0)
				So(err, ShouldBeNil)

				s, err := svc.GroupSettlement(ctx, g.ID, "ar")
				So(err, ShouldBeNil)
				found := false
				for _, st := range s.Settlements {
					if st.From == "مجهول" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When the group is deleted", func() {
			So(svc.DeleteGroup(ctx, g.ID), ShouldBeNil)

			Convey("Then it is gone", func() {
				_, _, err := svc.GetGroup(ctx, g.ID, "")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(svc.DeleteGroup(ctx, g.ID), repository.ErrNotFound), ShouldBeTrue)
				groups, err := svc.ListGroups(ctx)
				So(err, ShouldBeNil)
				So(groups, ShouldBeEmpty)
			})
		})

		Convey("When touching unknown participants", func() {
			_, _, err := svc.RemoveParticipant(ctx, g.ID, "ghost")

			Convey("Then ErrParticipantNotFound is returned", func() {
				So(errors.Is(err, repository.ErrParticipantNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestServiceLimits(t *testing.T) {
	Convey("Given a service with tight limits", t, func() {
		svc := service.New(service.WithMaxGroups(1), service.WithMaxParticipants(2))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		g, _, err := svc.CreateGroup(ctx, "only")
		So(err, ShouldBeNil)

		Convey("When exceeding the group limit", func() {
			_, _, err := svc.CreateGroup(ctx, "another")

			Convey("Then ErrCapacity is returned", func() {
				So(errors.Is(err, repository.ErrCapacity), ShouldBeTrue)
			})
		})

		Convey("When exceeding the participant limit", func() {
			_, _, _, _ = svc.AddParticipant(ctx, g.ID, "a", 1)
			_, _, _, _ = svc.AddParticipant(ctx, g.ID, "b", 2)
			_, _, _, err := svc.AddParticipant(ctx, g.ID, "c", 3)

			Convey("Then ErrTooManyParticipants is returned", func() {
				So(errors.Is(err, repository.ErrTooManyParticipants), ShouldBeTrue)
			})
		})
	})
}

func TestServiceTotals(t *testing.T) {
	Convey("Given a group holding a very large amount", t, func() {
		svc := service.New()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		g, _, err := svc.CreateGroup(ctx, "whales")
		So(err, ShouldBeNil)
		_, a, _, err := svc.AddParticipant(ctx, g.ID, "A", 1e308)
		So(err, ShouldBeNil)
		_, b, _, err := svc.AddParticipant(ctx, g.ID, "B", 0)
		So(err, ShouldBeNil)

		Convey("When another large amount is added", func() {
			_, _, _, err := svc.AddParticipant(ctx, g.ID, "C", 1e308)

			Convey("Then the overflowing total is rejected and the group is unchanged", func() {
				So(errors.Is(err, settlement.ErrInvalidAmount), ShouldBeTrue)
				got, _, err := svc.GetGroup(ctx, g.ID, "")
				So(err, ShouldBeNil)
				So(got.Participants, ShouldHaveLength, 2)
			})
		})

		Convey("When an existing participant is raised past the limit", func() {
			paid := 1e308
			_, _, err := svc.UpdateParticipant(ctx, g.ID, b.ID, repository.ParticipantPatch{Paid: &paid})

			Convey("Then the update is rejected", func() {
				So(errors.Is(err, settlement.ErrInvalidAmount), ShouldBeTrue)
			})
		})

		Convey("When the large participant itself is updated", func() {
			paid := 5e307
			_, s, err := svc.UpdateParticipant(ctx, g.ID, a.ID, repository.ParticipantPatch{Paid: &paid})

			Convey("Then its old amount does not count against the new total", func() {
				So(err, ShouldBeNil)
				So(s.TotalPaid, ShouldEqual, 5e307)
			})
		})
	})
}

func TestServiceRestartUnderLoad(t *testing.T) {
	Convey("Given requests running while the service restarts", t, func() {
		svc := service.New(service.WithMaxGroups(0))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		var unexpected atomic.Int64
		check := func(err error) {
			if err != nil && !errors.Is(err, service.ErrNotStarted) && !errors.Is(err, repository.ErrNotFound) {
				unexpected.Add(1)
			}
		}

		stop := make(chan struct{})
		var wg sync.WaitGroup
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; ; i++ {
					select {
					case <-stop:
						return
					default:
					}
					ps := []model.Participant{{Name: "A", Paid: float64(i)}, {Name: "B", Paid: float64(w)}}
					_, err := svc.Settle(ctx, ps, "")
					check(err)
					g, _, err := svc.CreateGroup(ctx, "g")
					check(err)
					if err == nil {
						_, _, _, err = svc.AddParticipant(ctx, g.ID, "x", 1)
						check(err)
					}
				}
			}(w)
		}

		for i := 0; i < 20; i++ {
			svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)
		}
		close(stop)
		wg.Wait()

		Convey("Then calls either succeed or see a clean lifecycle error", func() {
			So(unexpected.Load(), ShouldEqual, 0)
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service shared by many goroutines", t, func() {
		svc := service.New(service.WithMemoSize(8))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		g, _, err := svc.CreateGroup(ctx, "busy")
		So(err, ShouldBeNil)

		Convey("When participants are added and settled concurrently", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 100)
			for i := 0; i < 50; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					_, _, _, err := svc.AddParticipant(ctx, g.ID, fmt.Sprintf("p%d", i), float64(i))
					errs <- err
				}(i)
				go func() {
					defer wg.Done()
					_, err := svc.GroupSettlement(ctx, g.ID, "")
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then every call succeeds and the final plan balances", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				s, err := svc.GroupSettlement(ctx, g.ID, "")
				So(err, ShouldBeNil)
				So(s.Count, ShouldEqual, 50)
				So(s.TotalPaid, ShouldEqual, 1225)

				var paidOut float64
				for _, st := range s.Settlements {
					paidOut += st.Amount
				}
				So(paidOut, ShouldAlmostEqual, 312.5, 0.5)
				So(svc.GetStats()["participants"], ShouldEqual, 50)
			})
		})
	})
}
