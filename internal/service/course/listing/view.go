package listing

import (
	"Mumkin/internal/models"
	"Mumkin/pkg/observable"
	"context"
	"sync"
)

// View keeps one visitor's filter inputs and republishes the page whenever
// the inputs or the source collection change.
type View struct {
	source observable.Reader[[]models.Course]
	page   *observable.Value[Page]

	mu       sync.Mutex
	category string
	term     string
	visible  int
}

func NewView(source observable.Reader[[]models.Course]) *View {
	v := &View{
		source:   source,
		category: CategoryAll,
		visible:  PageSize,
	}
	v.page = observable.New(v.compute(source.Get()))
	return v
}

func (v *View) Page() observable.Reader[Page] {
	return v.page
}

func (v *View) SetCategory(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.category = category
	v.visible = PageSize
	v.publishLocked(v.source.Get())
}

func (v *View) SetTerm(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.term = term
	v.publishLocked(v.source.Get())
}

func (v *View) LoadMore() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible += PageSize
	v.publishLocked(v.source.Get())
}

// Run follows the source collection until ctx is done.
func (v *View) Run(ctx context.Context) {
	updates, cancel := v.source.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			// the received value may already be older than the source
			v.mu.Lock()
			v.publishLocked(v.source.Get())
			v.mu.Unlock()
		}
	}
}

// publishLocked computes and publishes under mu so a page built from old
// inputs can never overwrite a newer one.
func (v *View) publishLocked(courses []models.Course) {
	v.page.Publish(v.compute(courses))
}

func (v *View) compute(courses []models.Course) Page {
	return Window(Match(courses, v.category, v.term), v.visible)
}
