// views wires a scene to the configured image views and waits for them to write it.
package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"pathviz/config"
	"pathviz/scene"
	"pathviz/views/fastview"
	"pathviz/views/image_views"

	"golang.org/x/sync/errgroup"
)

// viewFor returns the builder for the named output format.
func viewFor(format, outDir string) (fastview.ViewBuilderFunc[*scene.Scene], error) {
	switch format {
	case config.PNG:
		return func(done <-chan struct{}, scenes <-chan *scene.Scene) fastview.ViewComponent {
			return image_views.NewPngView(done, scenes, outDir)
		}, nil
	case config.SVG:
		return func(done <-chan struct{}, scenes <-chan *scene.Scene) fastview.ViewComponent {
			return image_views.NewSvgView(done, scenes, outDir)
		}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// Render writes the scene once per configured format and returns the written paths.
// All views run to completion; their errors are joined.
func Render(
	ctx context.Context,
	sc *scene.Scene,
	cfg *config.RenderConfig,
) (paths []string, err error) {
	if err = os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scenes := make(chan *scene.Scene)
	builder := fastview.NewViewBuilder[*scene.Scene, *scene.Scene]().
		WithContext(ctx).
		WithModel(scenes, func(sc *scene.Scene) *scene.Scene { return sc })
	for _, format := range cfg.Formats {
		builderFn, err := viewFor(format, cfg.OutDir)
		if err != nil {
			return nil, err
		}
		builder.WithView(builderFn)
	}

	var views []fastview.ViewComponent
	if views, err = builder.Build(); err != nil {
		return nil, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(scenes)
		select {
		case scenes <- sc:
			return nil
		case <-groupCtx.Done():
			return groupCtx.Err()
		}
	})

	// Each view writes exactly one artifact for the single scene sent.
	var errs []error
	group.Go(func() error {
		written := fastview.Written(groupCtx.Done(), views)
		for range views {
			select {
			case artifact, ok := <-written:
				if !ok {
					return groupCtx.Err()
				}
				if artifact.Err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", artifact.Path, artifact.Err))
					continue
				}
				slog.Debug("wrote view", "path", artifact.Path)
				paths = append(paths, artifact.Path)
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return nil, err
	}
	return paths, errors.Join(errs...)
}
