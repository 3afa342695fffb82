package application

import (
	"encoding/json"
	"fmt"

	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
)

const (
	// AccountRootUpdatedTopic is published every time the snapshot of a
	// tracked account changes.
	AccountRootUpdatedTopic = "ACCOUNT_ROOT_UPDATED"
)

// AccountRootInfo is the JSON form of a snapshot used in notifications and
// by the operator CLI.
type AccountRootInfo struct {
	Account           string `json:"account"`
	Name              string `json:"name,omitempty"`
	Balance           string `json:"balance"`
	Sequence          uint32 `json:"sequence"`
	OwnerCount        uint32 `json:"owner_count"`
	Flags             uint32 `json:"flags"`
	PreviousTxnID     string `json:"previous_txn_id"`
	PreviousTxnLgrSeq uint32 `json:"previous_txn_lgr_seq"`
}

// NewAccountRootInfo converts root, name may be empty.
func NewAccountRootInfo(root domain.AccountRoot, name string) AccountRootInfo {
	return AccountRootInfo{
		Account:           root.Account,
		Name:              name,
		Balance:           root.Balance.String(),
		Sequence:          root.Sequence,
		OwnerCount:        root.OwnerCount,
		Flags:             root.Flags,
		PreviousTxnID:     root.PreviousTxnID.String(),
		PreviousTxnLgrSeq: root.PreviousTxnLgrSeq,
	}
}

// publishAccountRootUpdatedTopic helper to publish an AccountRootUpdated
// topic on the given pubsub service.
func publishAccountRootUpdatedTopic(
	pubsub ports.PubSub, lookup ports.AccountNameLookup,
	root domain.AccountRoot,
) error {
	if pubsub == nil {
		return nil
	}

	name := ""
	if lookup != nil {
		name = lookup.AccountName(root.Account)
	}
	message, _ := json.Marshal(NewAccountRootInfo(root, name))

	if err := pubsub.Publish(AccountRootUpdatedTopic, string(message)); err != nil {
		return fmt.Errorf(
			"an error occured while publishing message for topic %s: %s",
			AccountRootUpdatedTopic, err,
		)
	}
	return nil
}
