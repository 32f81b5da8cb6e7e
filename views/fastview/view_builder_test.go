package fastview

import (
	"context"
	"fmt"
	"sort"
	"testing"

	channerics "github.com/niceyeti/channerics/channels"
	. "github.com/smartystreets/goconvey/convey"
)

// prefixView reports each view-model it receives as an artifact path with its prefix.
type prefixView struct {
	written <-chan Artifact
}

func (pv *prefixView) Written() <-chan Artifact {
	return pv.written
}

func newPrefixView(prefix string) ViewBuilderFunc[string] {
	return func(done <-chan struct{}, models <-chan string) ViewComponent {
		return &prefixView{
			written: channerics.Convert(done, models, func(vm string) Artifact {
				return Artifact{Path: prefix + vm}
			}),
		}
	}
}

func TestViewBuilder(t *testing.T) {
	Convey("Happy path builder", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		input := make(chan int)
		views, err := NewViewBuilder[int, string]().
			WithContext(ctx).
			WithModel(input, func(x int) string { return fmt.Sprint(x) }).
			WithView(newPrefixView("a-")).
			WithView(newPrefixView("b-")).
			Build()
		So(err, ShouldBeNil)
		So(views, ShouldHaveLength, 2)

		Convey("Every view receives every converted item", func() {
			go func() {
				input <- 7
			}()

			paths := []string{}
			written := Written(ctx.Done(), views)
			for i := 0; i < len(views); i++ {
				artifact := <-written
				So(artifact.Err, ShouldBeNil)
				paths = append(paths, artifact.Path)
			}
			sort.Strings(paths)
			So(paths, ShouldResemble, []string{"a-7", "b-7"})
		})
	})

	Convey("When no views are added", t, func() {
		_, err := NewViewBuilder[int, string]().
			WithModel(make(chan int), func(x int) string { return "" }).
			Build()
		So(err, ShouldEqual, ErrNoViews)
	})

	Convey("When no model is specified", t, func() {
		_, err := NewViewBuilder[int, string]().
			WithView(newPrefixView("a-")).
			Build()
		So(err, ShouldEqual, ErrNoModel)
	})
}
