package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joeycumines/pelusa-cart/internal/config"
	"github.com/joeycumines/pelusa-cart/internal/pricing"
	"github.com/joeycumines/pelusa-cart/internal/reconcile"
	"github.com/joeycumines/pelusa-cart/internal/session"
	"github.com/joeycumines/pelusa-cart/internal/shop"
)

// storefront is a shop wired to its stores, as every cart command needs it.
type storefront struct {
	settings  config.Settings
	sessionID string
	stores    *shop.Stores
	shop      *shop.Shop
	format    *pricing.Formatter
	logger    *slog.Logger
	closers   []io.Closer
}

// pricerFor builds the pricer and formatter described by settings.
func pricerFor(settings config.Settings) (*pricing.Pricer, *pricing.Formatter, error) {
	catalog, err := pricing.LoadCatalog(settings.CatalogFile)
	if err != nil {
		return nil, nil, err
	}
	pricer, err := pricing.NewPricer(catalog, settings.Formula)
	if err != nil {
		return nil, nil, err
	}
	format, err := pricing.NewFormatter(settings.Locale)
	if err != nil {
		return nil, nil, err
	}
	return pricer, format, nil
}

// openStorefront resolves settings and the session, opens the three stores
// and loads the persisted cart. The caller must Close it.
func openStorefront(cfg *config.Config, explicitSession string, logger *slog.Logger) (*storefront, error) {
	settings, err := config.Resolve(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	pricer, format, err := pricerFor(settings)
	if err != nil {
		return nil, err
	}

	if explicitSession == "" {
		explicitSession = settings.SessionID
	}
	sessionID, source, err := session.GetSessionID(explicitSession)
	if err != nil {
		// The session store is just unavailable; the cart still works.
		logger.Warn("could not determine terminal session", "error", err)
	} else {
		logger.Debug("terminal session", "id", sessionID, "source", source)
	}

	stores := shop.OpenStores(shop.StoreOptions{
		LocalBackend: settings.LocalBackend,
		SessionID:    sessionID,
	}, logger)
	rec := reconcile.New(settings.CartKey, stores.List(), reconcile.WithLogger(logger))
	sf := &storefront{
		settings:  settings,
		sessionID: sessionID,
		stores:    stores,
		shop:      shop.New(rec, pricer, shop.WithShipping(settings.Shipping), shop.WithLogger(logger)),
		format:    format,
		logger:    logger,
	}
	sf.shop.Reload()
	return sf, nil
}

// Close releases the stores and anything registered with onClose.
func (s *storefront) Close() error {
	errs := []error{s.stores.Close()}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	return errors.Join(errs...)
}

func (s *storefront) onClose(c io.Closer) { s.closers = append(s.closers, c) }
