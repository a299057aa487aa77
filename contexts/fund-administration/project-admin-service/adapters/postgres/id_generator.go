package postgresadapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

// IDGenerator mints 32-byte identifiers rendered as 64-char lowercase hex.
type IDGenerator struct{}

func (IDGenerator) NewID(_ context.Context) (string, error) {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:]), nil
}

var _ ports.IDGenerator = IDGenerator{}
