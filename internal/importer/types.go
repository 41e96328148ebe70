package importer

import (
	"github.com/budgetnest/backend/internal/models"
	"github.com/google/uuid"
)

// TransactionPreview is a parsed transaction before it is written to the
// database, together with the information gathered about it on the way.
type TransactionPreview struct {
	Transaction             models.Transaction `json:"transaction"`
	EnvelopeName            string             `json:"envelopeName" example:"Groceries"`                           // Name of the envelope from the CSV file, if any
	DuplicateTransactionIDs []uuid.UUID        `json:"duplicateTransactionIds"`                                    // IDs of transactions that this transaction duplicates
	MatchRuleID             uuid.UUID          `json:"matchRuleId" example:"042d101d-f1de-4403-9295-59dc0ea58677"` // ID of the match rule that was applied to this transaction preview
}
