package views

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/fetcher"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

type DetectionView struct {
	lifecycle
	api   ports.DetectionAPI
	fetch *fetcher.Fetcher[domain.Detection]
}

func NewDetectionView(api ports.DetectionAPI, log zerolog.Logger, opts ...fetcher.Option) *DetectionView {
	return &DetectionView{
		lifecycle: newLifecycle("detection", log),
		api:       api,
		fetch:     fetcher.New[domain.Detection]("detection", append([]fetcher.Option{fetcher.WithLogger(log)}, opts...)...),
	}
}

func (v *DetectionView) Mount(ctx context.Context) {
	if v.begin(ctx) {
		v.own(v.fetch.Close, v.fetch.Wait)
	}
}

func (v *DetectionView) Unmount() {
	v.end()
}

// Upload sends image for analysis and waits for the result.
func (v *DetectionView) Upload(ctx context.Context, filename string, image io.Reader) (fetcher.State[domain.Detection], error) {
	if !v.isMounted() {
		return fetcher.State[domain.Detection]{}, domain.ErrNotMounted
	}
	st := v.fetch.Load(ctx, func(ctx context.Context) (domain.Detection, error) {
		return v.api.Detect(ctx, filename, image)
	})
	return st, st.Err
}

func (v *DetectionView) State() fetcher.State[domain.Detection] {
	return v.fetch.State()
}
