package storage

import (
	"context"

	"github.com/chris/crypto-investments/pkg/models"
)

// CryptoStore defines access to the supported cryptocurrencies.
type CryptoStore interface {
	GetCrypto(ctx context.Context, id string) (*models.Crypto, error)
	ListCryptos(ctx context.Context) ([]models.Crypto, error)
	UpdateCryptoAddress(ctx context.Context, id, address string) error
}
