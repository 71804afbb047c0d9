package memo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/splitpool/internal/domain/memo"
	"github.com/okian/splitpool/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func summaryWith(total float64) model.Summary {
	return model.Summary{
		TotalPaid:   total,
		Count:       2,
		Settlements: []model.Settlement{{From: "b", To: "a", Amount: total / 2}},
	}
}

func TestInMemoryCache(t *testing.T) {
	Convey("Given a new in-memory cache", t, func() {
		ctx := context.Background()

		Convey("When created with default options", func() {
			c := memo.NewInMemoryCache()

			Convey("Then it should be empty", func() {
				So(c, ShouldNotBeNil)
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get(ctx, "missing")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a summary is stored", func() {
			c := memo.NewInMemoryCache()
			c.Put(ctx, "k1", summaryWith(10))

			Convey("Then it should be returned by key", func() {
				got, ok := c.Get(ctx, "k1")
				So(ok, ShouldBeTrue)
				So(got.TotalPaid, ShouldEqual, 10)
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("And mutating the returned summary should not leak into the cache", func() {
				got, _ := c.Get(ctx, "k1")
				got.Settlements[0].Amount = 999
				again, _ := c.Get(ctx, "k1")
				So(again.Settlements[0].Amount, ShouldEqual, 5)
			})

			Convey("And storing the same key again should replace it in place", func() {
				c.Put(ctx, "k1", summaryWith(20))
				got, _ := c.Get(ctx, "k1")
				So(got.TotalPaid, ShouldEqual, 20)
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the cache is bounded", func() {
			c := memo.NewInMemoryCache(memo.WithMaxSize(3))
			for i := 1; i <= 4; i++ {
				c.Put(ctx, fmt.Sprintf("k%d", i), summaryWith(float64(i)))
			}

			Convey("Then the oldest entry should be evicted", func() {
				So(c.Size(), ShouldEqual, 3)
				_, ok := c.Get(ctx, "k1")
				So(ok, ShouldBeFalse)
				for _, k := range []string{"k2", "k3", "k4"} {
					_, ok := c.Get(ctx, k)
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When a bounded cache sees a long stream of keys", func() {
			c := memo.NewInMemoryCache(memo.WithMaxSize(100))
			for i := 0; i < 20_000; i++ {
				c.Put(ctx, fmt.Sprintf("k%d", i), summaryWith(float64(i)))
			}

			Convey("Then exactly the newest keys remain, in insertion order", func() {
				So(c.Size(), ShouldEqual, 100)
				_, ok := c.Get(ctx, "k19899")
				So(ok, ShouldBeFalse)
				for i := 19_900; i < 20_000; i++ {
					_, ok := c.Get(ctx, fmt.Sprintf("k%d", i))
					So(ok, ShouldBeTrue)
				}
			})

			Convey("And eviction keeps working after a purge", func() {
				c.Purge(ctx)
				for i := 0; i < 101; i++ {
					c.Put(ctx, fmt.Sprintf("n%d", i), summaryWith(1))
				}
				So(c.Size(), ShouldEqual, 100)
				_, ok := c.Get(ctx, "n0")
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, "n1")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the cache holds a single slot", func() {
			c := memo.NewInMemoryCache(memo.WithMaxSize(1))
			c.Put(ctx, "a", summaryWith(1))
			c.Put(ctx, "b", summaryWith(2))

			Convey("Then only the newest entry should survive", func() {
				So(c.Size(), ShouldEqual, 1)
				_, ok := c.Get(ctx, "b")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the cache is unbounded", func() {
			c := memo.NewInMemoryCache(memo.WithMaxSize(0))
			for i := 0; i < 2000; i++ {
				c.Put(ctx, fmt.Sprintf("k%d", i), summaryWith(1))
			}

			Convey("Then nothing should be evicted", func() {
				So(c.Size(), ShouldEqual, 2000)
			})
		})

		Convey("When the cache is purged", func() {
			c := memo.NewInMemoryCache()
			c.Put(ctx, "k1", summaryWith(1))
			c.Put(ctx, "k2", summaryWith(2))
			c.Purge(ctx)

			Convey("Then it should be empty and reusable", func() {
				So(c.Size(), ShouldEqual, 0)
				c.Put(ctx, "k3", summaryWith(3))
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When used concurrently", func() {
			c := memo.NewInMemoryCache(memo.WithMaxSize(50))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						key := fmt.Sprintf("g%d-%d", g, i%60)
						c.Put(ctx, key, summaryWith(float64(i)))
						c.Get(ctx, key)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then the bound should hold", func() {
				So(c.Size(), ShouldBeLessThanOrEqualTo, 50)
			})
		})
	})
}

func TestFingerprint(t *testing.T) {
	Convey("Given participant snapshots", t, func() {
		base := []model.Participant{
			{ID: "a", Name: "A", Paid: 90},
			{ID: "b", Name: "B", Paid: 0},
		}

		Convey("Then identical snapshots share a key", func() {
			copyOf := append([]model.Participant(nil), base...)
			So(memo.Fingerprint("en", copyOf), ShouldEqual, memo.Fingerprint("en", base))
		})

		Convey("Then any edit changes the key", func() {
			edited := append([]model.Participant(nil), base...)
			edited[1].Paid = 0.01
			renamed := append([]model.Participant(nil), base...)
			renamed[0].Name = "Alice"
			fewer := base[:1]

			key := memo.Fingerprint("en", base)
			So(memo.Fingerprint("en", edited), ShouldNotEqual, key)
			So(memo.Fingerprint("en", renamed), ShouldNotEqual, key)
			So(memo.Fingerprint("en", fewer), ShouldNotEqual, key)
		})

		Convey("Then the namespace is part of the key", func() {
			So(memo.Fingerprint("ar", base), ShouldNotEqual, memo.Fingerprint("en", base))
		})

		Convey("Then field boundaries are unambiguous", func() {
			a := []model.Participant{{ID: "ab", Name: "c"}}
			b := []model.Participant{{ID: "a", Name: "bc"}}
			So(memo.Fingerprint("", a), ShouldNotEqual, memo.Fingerprint("", b))
		})
	})
}
