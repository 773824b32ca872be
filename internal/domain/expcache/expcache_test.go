package expcache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/stride/internal/domain/expcache"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty cache", t, func() {
		c := expcache.New()

		Convey("Then a miss reports absent", func() {
			_, ok := c.Get(ctx, "nope")
			So(ok, ShouldBeFalse)
			So(c.Size(), ShouldEqual, 0)
		})

		Convey("When a value is stored", func() {
			c.Put(ctx, "k1", "a carbon racer for marathon day")

			Convey("Then it can be read back", func() {
				v, ok := c.Get(ctx, "k1")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "a carbon racer for marathon day")
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("And storing the same key again replaces the value", func() {
				c.Put(ctx, "k1", "updated")
				v, _ := c.Get(ctx, "k1")
				So(v, ShouldEqual, "updated")
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an empty value is stored", func() {
			c.Put(ctx, "k2", "")

			Convey("Then nothing is cached", func() {
				_, ok := c.Get(ctx, "k2")
				So(ok, ShouldBeFalse)
				So(c.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a cache bounded to three entries", t, func() {
		c := expcache.New(expcache.WithMaxSize(3))

		Convey("When a fourth entry arrives", func() {
			for i := 0; i < 4; i++ {
				c.Put(ctx, fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
			}

			Convey("Then the size stays at the bound", func() {
				So(c.Size(), ShouldEqual, 3)
			})

			Convey("And the oldest entry makes room for the newest", func() {
				_, ok := c.Get(ctx, "k0")
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, "k3")
				So(ok, ShouldBeTrue)
			})

			Convey("And the survivors are the three most recent", func() {
				for _, key := range []string{"k1", "k2", "k3"} {
					_, ok := c.Get(ctx, key)
					So(ok, ShouldBeTrue)
				}
			})
		})
	})

	Convey("Given concurrent readers and writers", t, func() {
		c := expcache.New(expcache.WithMaxSize(64))

		Convey("Then the cache survives the contention", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						key := fmt.Sprintf("k%d-%d", n, j%16)
						c.Put(ctx, key, "v")
						c.Get(ctx, key)
					}
				}(i)
			}
			wg.Wait()
			So(c.Size(), ShouldBeLessThanOrEqualTo, 64)
		})
	})
}
