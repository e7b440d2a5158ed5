package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionPrepared = "prepared"
	SubmissionExecuted = "executed"
	SubmissionFailed   = "failed"
)

// Transaction kinds, one per program entry point.
const (
	TxVerifyProfile     = "verify_profile"
	TxRemoveProfile     = "remove_profile"
	TxCreateProject     = "create_project_showcase"
	TxCreateCertificate = "create_certificate"
	TxVote              = "vote"
)

// Submission is a journal entry for one transaction built on behalf of a
// wallet. It is the only state the service owns.
type Submission struct {
	ID          uuid.UUID  `json:"id"`
	Sender      Address    `json:"sender"`
	Kind        string     `json:"kind"`
	Target      string     `json:"target"`
	TxBytes     string     `json:"txBytes"`
	Topics      []string   `json:"topics,omitempty"`
	Status      string     `json:"status"`
	Digest      *string    `json:"digest,omitempty"`
	Error       *string    `json:"error,omitempty"`
	ExplorerURL string     `json:"explorerUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExecutedAt  *time.Time `json:"executedAt,omitempty"`
}

// MoveCall is a single entry point invocation with positional arguments in
// the JSON encoding the node accepts: object ids and addresses as strings,
// vectors as arrays.
type MoveCall struct {
	Package   ObjectID `json:"package"`
	Module    string   `json:"module"`
	Function  string   `json:"function"`
	TypeArgs  []string `json:"typeArguments"`
	Arguments []any    `json:"arguments"`
}

// Target renders the fully qualified entry point, package::module::function.
func (c MoveCall) Target() string {
	return c.Package + "::" + c.Module + "::" + c.Function
}
