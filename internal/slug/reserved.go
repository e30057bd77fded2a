package slug

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// ReservedListVersion identifies the built-in list. Bump it whenever an
// entry is added; entries are never removed.
const ReservedListVersion = 2

// builtinReserved covers platform routes, infrastructure hostnames and
// brand names that must never resolve to a tenant storefront.
var builtinReserved = []string{
	// platform and routing
	"app", "admin", "api", "www", "meu", "conta", "login", "signin", "signup", "register",
	"checkout", "cart", "pagamento", "payment", "billing", "static", "assets", "cdn",
	"docs", "blog", "suporte", "help", "robots", "sitemap", "status", "store", "shop", "loja",
	// driver app
	"driver", "motorista",
	// brand
	"entregou", "pensou",
	// environments
	"test", "demo", "staging", "dev", "preview",
	// operator surfaces
	"superadmin", "dashboard", "onboarding", "internal", "health", "metrics",
}

// BuiltinReserved returns a copy of the built-in reserved entries.
func BuiltinReserved() []string {
	return slices.Clone(builtinReserved)
}

// DefaultReserved returns a fresh set holding the built-in reserved list.
func DefaultReserved() Set {
	return NewSet(builtinReserved...)
}

// ReservedConfig holds the extra reserved list files to load.
type ReservedConfig struct {
	// FilePaths lists files with one slug per line. Files ending in .gz are
	// read as gzip. Lines starting with # are comments.
	FilePaths []string
}

// NewReservedSet builds the reserved set: the built-in list plus every entry
// of the configured files, which are loaded concurrently. Files can only add
// entries.
func NewReservedSet(ctx context.Context, cfg ReservedConfig, loader Loader, logger zerolog.Logger) (Set, error) {
	logger = logger.With().Str("component", "reserved-slugs").Logger()

	set := newMapSet(len(builtinReserved))
	for _, e := range builtinReserved {
		set.Add(e)
	}

	if len(cfg.FilePaths) == 0 || loader == nil {
		logger.Info().
			Int("version", ReservedListVersion).
			Int("size", set.Size()).
			Msg("using built-in reserved slug list")
		return set, nil
	}

	type loadResult struct {
		index int
		set   Set
		err   error
	}

	resultChan := make(chan loadResult, len(cfg.FilePaths))
	var wg sync.WaitGroup

	for i, path := range cfg.FilePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			loaded, err := loader.Load(ctx, path)
			resultChan <- loadResult{index: index, set: loaded, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(cfg.FilePaths))
	for r := range resultChan {
		results[r.index] = r
	}

	for i, r := range results {
		if r.err != nil {
			logger.Error().Err(r.err).Str("file", cfg.FilePaths[i]).Msg("failed to load reserved slug file")
			return nil, fmt.Errorf("failed to load reserved slug file %s: %w", cfg.FilePaths[i], r.err)
		}
		set.merge(r.set)
		logger.Info().
			Str("file", cfg.FilePaths[i]).
			Int("size", r.set.Size()).
			Msg("reserved slug file loaded")
	}

	logger.Info().
		Int("version", ReservedListVersion).
		Int("size", set.Size()).
		Msg("reserved slug list ready")

	return set, nil
}
