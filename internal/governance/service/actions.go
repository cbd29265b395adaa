package service

import (
	"context"
	"encoding/binary"

	"sss/internal/governance/models"
	scmodels "sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/requestcontext"
)

// dispatch interprets an approved governance action against the currency
// record. Pause, unpause, supply cap, and authority transfer are executed
// inline; every other action type is recorded and left for the caller to
// carry out with the context only they hold.
func (s *Service) dispatch(ctx context.Context, stablecoin id.Address, action models.ActionType, payload []byte) error {
	now := requestcontext.Now(ctx)

	switch action {
	case models.ActionPause:
		_, err := s.stablecoins.Execute(ctx, stablecoin,
			func(sc *scmodels.Stablecoin) error { return sc.CanPause() },
			func(sc *scmodels.Stablecoin) { sc.ApplyPause(now) })
		return s.mapStoreErr(err, "stablecoin not found", "failed to pause stablecoin")

	case models.ActionUnpause:
		_, err := s.stablecoins.Execute(ctx, stablecoin,
			func(sc *scmodels.Stablecoin) error { return sc.CanUnpause() },
			func(sc *scmodels.Stablecoin) { sc.ApplyUnpause(now) })
		return s.mapStoreErr(err, "stablecoin not found", "failed to unpause stablecoin")

	case models.ActionUpdateSupplyCap:
		newCap := binary.LittleEndian.Uint64(payload)
		_, err := s.stablecoins.Execute(ctx, stablecoin,
			func(sc *scmodels.Stablecoin) error { return sc.CanSetSupplyCap(newCap) },
			func(sc *scmodels.Stablecoin) { sc.ApplySupplyCap(newCap, now) })
		return s.mapStoreErr(err, "stablecoin not found", "failed to update supply cap")

	case models.ActionTransferAuthority:
		target, err := id.ParseAddress(string(payload))
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "authority payload must be a valid address")
		}
		// governance only proposes; the target still has to accept, so a
		// mistyped payload cannot lock the currency out
		_, err = s.stablecoins.Execute(ctx, stablecoin, nil,
			func(sc *scmodels.Stablecoin) { sc.ProposeAuthority(target, now) })
		return s.mapStoreErr(err, "stablecoin not found", "failed to propose authority transfer")

	default:
		if s.logger != nil {
			s.logger.InfoContext(ctx, "governance action recorded without inline execution",
				"stablecoin", stablecoin, "action", string(action))
		}
		return nil
	}
}
