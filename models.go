package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the default account model. Integrators with their own
// schema implement AccountAdapter instead; this one works out of the box
// with BunAccountStorage and NewAccountAdapter.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`

	ID           uuid.UUID         `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name         string            `bun:"name,notnull" json:"name,omitempty"`
	PasswordHash string            `bun:"password_hash,notnull" json:"-"`
	Metadata     map[string]string `bun:"metadata,nullzero,type:jsonb" json:"metadata,omitempty"`
	IsDeleted    bool              `bun:"is_deleted,notnull,default:false" json:"is_deleted,omitempty"`
	CreatedAt    time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt    *time.Time        `bun:"updated_at" json:"updated_at,omitempty"`
}

// AccountsTableSQL creates the default schema. Uniqueness of the name is
// scoped to live rows: deleted accounts may leave any number of rows
// with a name behind.
var AccountsTableSQL = `CREATE TABLE IF NOT EXISTS accounts (
	id TEXT NOT NULL PRIMARY KEY,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	metadata TEXT,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_accounts_live_name
	ON accounts (name) WHERE is_deleted = FALSE;`
