package models

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

var testNow = time.Unix(1_700_000_000, 0)

func signers(n int) []id.Address {
	out := make([]id.Address, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, id.Address(string(rune('a'+i))+"-signer"))
	}
	return out
}

func TestNewMultisigConfig(t *testing.T) {
	tests := []struct {
		name      string
		signers   []id.Address
		threshold uint8
		reason    string
		wantErr   bool
	}{
		{name: "valid 2 of 3", signers: signers(3), threshold: 2},
		{name: "valid 1 of 1", signers: signers(1), threshold: 1},
		{name: "valid 10 of 10", signers: signers(10), threshold: 10},
		{name: "empty signer set", signers: nil, threshold: 1, wantErr: true},
		{name: "too many signers", signers: signers(11), threshold: 1, wantErr: true, reason: dErrors.ReasonTooManySigners},
		{name: "zero threshold", signers: signers(3), threshold: 0, wantErr: true, reason: dErrors.ReasonInvalidThreshold},
		{name: "threshold above signer count", signers: signers(3), threshold: 4, wantErr: true, reason: dErrors.ReasonInvalidThreshold},
		{name: "duplicate signer", signers: []id.Address{"a", "b", "a"}, threshold: 2, wantErr: true},
		{name: "empty signer address", signers: []id.Address{"a", ""}, threshold: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMultisigConfig("sc-1", tt.signers, tt.threshold, testNow)
			if tt.wantErr {
				require.Error(t, err)
				if tt.reason != "" {
					assert.True(t, dErrors.HasReason(err, tt.reason))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.threshold, m.Threshold)
			assert.Zero(t, m.ProposalCount)
		})
	}
}

func TestMultisigProposalSequence(t *testing.T) {
	m, err := NewMultisigConfig("sc-1", signers(3), 2, testNow)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), m.TakeProposalID(testNow))
	assert.Equal(t, uint64(1), m.TakeProposalID(testNow))
	assert.Equal(t, uint64(2), m.ProposalCount)
}

func TestProposalLifecycle(t *testing.T) {
	m, err := NewMultisigConfig("sc-1", signers(3), 2, testNow)
	require.NoError(t, err)
	proposer := m.Signers[0]
	second := m.Signers[1]

	p, err := NewProposal(m, 0, proposer, ActionPause, nil, testNow)
	require.NoError(t, err)

	t.Run("proposer approval is pre-recorded", func(t *testing.T) {
		assert.True(t, p.HasApproved(proposer))
		assert.Len(t, p.Approvals, 1)
		assert.True(t, dErrors.HasReason(p.CanApprove(proposer), dErrors.ReasonAlreadyApproved))
	})

	t.Run("below threshold cannot execute", func(t *testing.T) {
		assert.True(t, dErrors.HasReason(p.CanExecute(m.Threshold), dErrors.ReasonInsufficientApprovals))
	})

	t.Run("second approval meets threshold", func(t *testing.T) {
		require.NoError(t, p.CanApprove(second))
		p.ApplyApproval(second, testNow)
		assert.NoError(t, p.CanExecute(m.Threshold))
	})

	t.Run("execution is one-shot", func(t *testing.T) {
		p.ApplyExecuted(testNow)
		assert.True(t, dErrors.HasReason(p.CanExecute(m.Threshold), dErrors.ReasonProposalAlreadyExecuted))
		assert.True(t, dErrors.HasReason(p.CanApprove(m.Signers[2]), dErrors.ReasonProposalAlreadyExecuted))
	})

	t.Run("cancelled proposals are terminal", func(t *testing.T) {
		cancelled, err := NewProposal(m, 1, proposer, ActionUnpause, nil, testNow)
		require.NoError(t, err)
		cancelled.Cancelled = true
		assert.True(t, dErrors.HasReason(cancelled.CanApprove(second), dErrors.ReasonProposalCancelled))
		assert.True(t, dErrors.HasReason(cancelled.CanExecute(m.Threshold), dErrors.ReasonProposalCancelled))
	})
}

func TestValidateAction(t *testing.T) {
	capPayload := make([]byte, 8)
	binary.LittleEndian.PutUint64(capPayload, 5000)

	tests := []struct {
		name    string
		action  ActionType
		payload []byte
		wantErr bool
	}{
		{name: "pause takes no payload", action: ActionPause},
		{name: "pause rejects payload", action: ActionPause, payload: []byte{1}, wantErr: true},
		{name: "supply cap takes 8 bytes", action: ActionUpdateSupplyCap, payload: capPayload},
		{name: "supply cap rejects short payload", action: ActionUpdateSupplyCap, payload: []byte{1, 2}, wantErr: true},
		{name: "authority takes an address", action: ActionTransferAuthority, payload: []byte("next-authority")},
		{name: "authority rejects empty payload", action: ActionTransferAuthority, wantErr: true},
		{name: "recorded actions take opaque payloads", action: ActionUpdateRoles, payload: []byte(`{"holder":"x"}`)},
		{name: "payload bound enforced", action: ActionUpdateRoles, payload: make([]byte, MaxPayloadLen+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAction(tt.action, tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseActionType(t *testing.T) {
	got, err := ParseActionType("update_supply_cap")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdateSupplyCap, got)

	_, err = ParseActionType("mint_everything")
	assert.Error(t, err)
}

func TestTimelockConfig(t *testing.T) {
	_, err := NewTimelockConfig("sc-1", -1, true, testNow)
	assert.Error(t, err)

	config, err := NewTimelockConfig("sc-1", 3600, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), config.Delay)
}

func TestTimelockOperationLifecycle(t *testing.T) {
	eta := testNow.Add(time.Hour)
	op, err := NewTimelockOperation("sc-1", 7, "authority-1", ActionPause, nil, eta, testNow)
	require.NoError(t, err)

	t.Run("not ready before eta", func(t *testing.T) {
		err := op.CanExecute(eta.Add(-time.Second))
		assert.True(t, dErrors.HasReason(err, dErrors.ReasonTimelockNotReady))
	})

	t.Run("ready exactly at eta", func(t *testing.T) {
		assert.NoError(t, op.CanExecute(eta))
	})

	t.Run("execution is one-shot", func(t *testing.T) {
		op.ApplyExecuted(eta)
		assert.True(t, dErrors.HasReason(op.CanExecute(eta), dErrors.ReasonOperationAlreadyExecuted))
		assert.True(t, dErrors.HasReason(op.CanCancel(), dErrors.ReasonOperationAlreadyExecuted))
	})

	t.Run("cancelled operations stay cancelled", func(t *testing.T) {
		cancelled, err := NewTimelockOperation("sc-1", 8, "authority-1", ActionPause, nil, eta, testNow)
		require.NoError(t, err)
		require.NoError(t, cancelled.CanCancel())
		cancelled.ApplyCancelled(testNow)
		assert.True(t, dErrors.HasReason(cancelled.CanExecute(eta), dErrors.ReasonOperationCancelled))
		assert.True(t, dErrors.HasReason(cancelled.CanCancel(), dErrors.ReasonOperationCancelled))
	})
}

func TestDerivedAddressesAreScoped(t *testing.T) {
	msA, _ := MultisigAddress("sc-a")
	msB, _ := MultisigAddress("sc-b")
	assert.NotEqual(t, msA, msB)

	p0, _ := ProposalAddress(msA, 0)
	p1, _ := ProposalAddress(msA, 1)
	assert.NotEqual(t, p0, p1)

	op0, _ := TimelockOperationAddress("sc-a", 0)
	op0b, _ := TimelockOperationAddress("sc-b", 0)
	assert.NotEqual(t, op0, op0b)
}
