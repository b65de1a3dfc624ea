package views

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/ports"
	"github.com/smartfarming/farm-client/internal/core/service"
)

type ForumView struct {
	lifecycle
	api    ports.ForumAPI
	fetch  *fetcher.Fetcher[[]domain.ForumPost]
	action actionError
}

func NewForumView(api ports.ForumAPI, log zerolog.Logger, opts ...fetcher.Option) *ForumView {
	return &ForumView{
		lifecycle: newLifecycle("forum", log),
		api:       api,
		fetch:     fetcher.New[[]domain.ForumPost]("forum", append([]fetcher.Option{fetcher.WithLogger(log)}, opts...)...),
	}
}

func (v *ForumView) Mount(ctx context.Context) {
	if !v.begin(ctx) {
		return
	}
	v.own(v.fetch.Close, v.fetch.Wait)
	v.Refresh()
}

func (v *ForumView) Unmount() {
	v.end()
}

// Refresh refetches the post list.
func (v *ForumView) Refresh() {
	if ctx, err := v.context(); err == nil {
		v.fetch.Fetch(ctx, v.api.Forum)
	}
}

// CreatePost publishes a thread and reloads the list.
func (v *ForumView) CreatePost(ctx context.Context, title, content string) error {
	if !v.isMounted() {
		return domain.ErrNotMounted
	}
	post := domain.ForumPost{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
	err := service.ValidateForm(post)
	if err == nil {
		_, err = v.api.CreatePost(ctx, post.Title, post.Content)
	}
	v.action.set(err)
	if err != nil {
		return err
	}
	v.Refresh()
	return nil
}

func (v *ForumView) Vote(ctx context.Context, postID string, dir domain.VoteDirection) error {
	if !v.isMounted() {
		return domain.ErrNotMounted
	}
	_, err := v.api.Vote(ctx, postID, dir)
	v.action.set(err)
	if err != nil {
		return err
	}
	v.Refresh()
	return nil
}

func (v *ForumView) State() fetcher.State[[]domain.ForumPost] {
	return v.fetch.State()
}

func (v *ForumView) ActionError() string {
	return v.action.get()
}
