package services

import (
	"context"

	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/pkg/balanceapi"
)

// RemoteBridge relays game balance changes to another classroom server.
type RemoteBridge struct {
	client  *balanceapi.Client
	classID int64
}

var _ game.BalanceBridge = (*RemoteBridge)(nil)

// NewRemoteBridge binds client to one class.
func NewRemoteBridge(client *balanceapi.Client, classID int64) *RemoteBridge {
	return &RemoteBridge{client: client, classID: classID}
}

func (b *RemoteBridge) GetBalance(ctx context.Context) (game.Balance, error) {
	bal, err := b.client.GetBalance(ctx, b.classID)
	if err != nil {
		return game.Balance{}, err
	}
	return game.Balance{Students: bal.Students, Valera: bal.Valera}, nil
}

func (b *RemoteBridge) UpdateBalance(ctx context.Context, studentsDelta, valeraDelta int) error {
	_, err := b.client.ApplyDelta(ctx, b.classID, studentsDelta, valeraDelta)
	return err
}
