package datastore

import (
	"context"

	"github.com/zeu5/keyword-rl/adenv"
	"go.uber.org/zap"
)

// Loader produces the organized dataset of an input file, going through the
// cache when one is configured
type Loader struct {
	Cache     Cache
	Organizer *adenv.Organizer
	Logger    *zap.Logger
}

func NewLoader(cache Cache, maxSteps int, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		Cache:     cache,
		Organizer: adenv.NewOrganizer(maxSteps),
		Logger:    logger,
	}
}

// Load reads path and organizes it. When organized is set the file is taken
// as already organized and is only checked for block alignment.
// Cache failures are logged and fall back to organizing the file.
func (l *Loader) Load(ctx context.Context, path string, organized bool) (adenv.Dataset, error) {
	if organized {
		rows, err := adenv.LoadFile(path)
		if err != nil {
			return nil, err
		}
		d := make(adenv.Dataset, len(rows))
		for i, r := range rows {
			d[i] = r.KeywordMetrics
		}
		if _, err := adenv.NewIndexer(d); err != nil {
			return nil, err
		}
		return d, nil
	}

	key := ""
	if l.Cache != nil {
		k, err := FileKey(path, l.Organizer.MaxSteps)
		if err != nil {
			l.Logger.Warn("cannot compute cache key", zap.String("path", path), zap.Error(err))
		} else {
			key = k
			d, ok, err := l.Cache.Get(ctx, key)
			if err != nil {
				l.Logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
			} else if ok {
				l.Logger.Info("organized dataset loaded from cache", zap.String("key", key), zap.Int("rows", d.Len()))
				return d, nil
			}
		}
	}

	rows, err := adenv.LoadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := l.Organizer.Organize(rows)
	if err != nil {
		return nil, err
	}
	l.Logger.Info("dataset organized", zap.String("path", path), zap.Int("raw_rows", len(rows)), zap.Int("rows", d.Len()))

	if key != "" {
		if err := l.Cache.Put(ctx, key, d); err != nil {
			l.Logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
		}
	}
	return d, nil
}
