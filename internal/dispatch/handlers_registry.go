package dispatch

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/onchain-commerce/hubindexer/internal/protocol"
	"github.com/onchain-commerce/hubindexer/internal/store"
)

// Identity registry.

func (d *Dispatcher) handleIdentityEvent(b *batch, name string, lg types.Log) error {
	switch name {
	case "Registered":
		var ev protocol.Registered
		if err := protocol.Identity.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}

		id := store.AgentID(ev.AgentId)
		existing, err := b.st.GetAgent(id)
		if err != nil {
			return err
		}

		agent := &store.Agent{
			ID:        id,
			AgentID:   ev.AgentId,
			Owner:     ev.Owner,
			AgentURI:  ev.AgentURI,
			CreatedAt: b.blockTime,
		}
		if existing != nil {
			agent.CreatedAt = existing.CreatedAt
		}
		return b.st.PutAgent(agent)

	case "URIUpdated":
		var ev protocol.URIUpdated
		if err := protocol.Identity.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}

		id := store.AgentID(ev.AgentId)
		agent, err := b.st.GetAgent(id)
		if err != nil {
			return err
		}
		if agent == nil {
			return d.skipOrphan(name, "agent", id, lg)
		}

		agent.AgentURI = ev.NewURI
		return b.st.PutAgent(agent)
	}

	return nil
}

// Reputation registry.

func (d *Dispatcher) handleReputationEvent(b *batch, name string, lg types.Log) error {
	switch name {
	case "NewFeedback":
		var ev protocol.NewFeedback
		if err := protocol.Reputation.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}

		id := store.FeedbackID(ev.AgentId, ev.ClientAddress, ev.FeedbackIndex)
		existing, err := b.st.GetFeedback(id)
		if err != nil {
			return err
		}

		feedback := &store.Feedback{
			ID:            id,
			AgentID:       store.AgentID(ev.AgentId),
			ClientAddress: ev.ClientAddress,
			FeedbackIndex: ev.FeedbackIndex,
			Value:         ev.Value,
			ValueDecimals: ev.ValueDecimals,
			Tag1:          ev.Tag1,
			Tag2:          ev.Tag2,
			CreatedAt:     b.blockTime,
		}
		if existing != nil {
			// A replay must never un-revoke.
			feedback.Revoked = existing.Revoked
			feedback.CreatedAt = existing.CreatedAt
		}
		return b.st.PutFeedback(feedback)

	case "FeedbackRevoked":
		var ev protocol.FeedbackRevoked
		if err := protocol.Reputation.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}

		id := store.FeedbackID(ev.AgentId, ev.ClientAddress, ev.FeedbackIndex)
		feedback, err := b.st.GetFeedback(id)
		if err != nil {
			return err
		}
		if feedback == nil {
			return d.skipOrphan(name, "feedback", id, lg)
		}

		feedback.Revoked = true
		return b.st.PutFeedback(feedback)
	}

	return nil
}

// Validation registry.

func (d *Dispatcher) handleValidationEvent(b *batch, name string, lg types.Log) error {
	switch name {
	case "ValidationRequested":
		var ev protocol.ValidationRequested
		if err := protocol.Validation.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}

		id := store.ValidationID(ev.RequestHash)
		existing, err := b.st.GetValidationRequest(id)
		if err != nil {
			return err
		}
		if existing != nil {
			// The request is immutable once seen; a replay after the
			// response arrived must not clear it.
			return nil
		}

		return b.st.PutValidationRequest(&store.ValidationRequest{
			ID:               id,
			RequestHash:      ev.RequestHash,
			AgentID:          store.AgentID(ev.AgentId),
			ValidatorAddress: ev.ValidatorAddress,
			RequestURI:       ev.RequestURI,
			CreatedAt:        b.blockTime,
		})

	case "ValidationResponded":
		var ev protocol.ValidationResponded
		if err := protocol.Validation.UnpackLog(&ev, name, lg); err != nil {
			return d.rejectDecode(name, lg, err)
		}

		id := store.ValidationID(ev.RequestHash)
		request, err := b.st.GetValidationRequest(id)
		if err != nil {
			return err
		}
		if request == nil {
			return d.skipOrphan(name, "validation request", id, lg)
		}

		response := int64(ev.Response)
		tag := ev.Tag
		respondedAt := b.blockTime

		request.Response = &response
		request.ResponseTag = &tag
		request.RespondedAt = &respondedAt
		return b.st.PutValidationRequest(request)
	}

	return nil
}
