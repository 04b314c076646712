// Package protocol carries the contract event definitions of the commerce
// protocol and the decoding from raw chain logs into typed events.
package protocol

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Role identifies which protocol contract emitted an event.
type Role string

const (
	RoleHub        Role = "hub"
	RoleShop       Role = "shop"
	RoleIdentity   Role = "identity"
	RoleReputation Role = "reputation"
	RoleValidation Role = "validation"
)

// ContractABI wraps a parsed ABI with log decoding helpers.
type ContractABI struct {
	role Role
	abi  abi.ABI
}

var (
	Hub        = mustContractABI(RoleHub, hubABIJSON)
	Shop       = mustContractABI(RoleShop, shopABIJSON)
	Identity   = mustContractABI(RoleIdentity, identityABIJSON)
	Reputation = mustContractABI(RoleReputation, reputationABIJSON)
	Validation = mustContractABI(RoleValidation, validationABIJSON)
)

func mustContractABI(role Role, abiJSON string) ContractABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid %s ABI: %v", role, err))
	}
	return ContractABI{role: role, abi: parsed}
}

// Role returns the contract role this ABI describes.
func (c ContractABI) Role() Role {
	return c.role
}

// EventName resolves the event name for a topic0 hash. The second return
// value is false for topics this contract does not define.
func (c ContractABI) EventName(topic common.Hash) (string, bool) {
	event, err := c.abi.EventByID(topic)
	if err != nil {
		return "", false
	}
	return event.Name, true
}

// EventID returns the topic0 hash for a named event.
func (c ContractABI) EventID(name string) common.Hash {
	return c.abi.Events[name].ID
}

// UnpackLog decodes a raw log into the given event struct, filling
// non-indexed fields from the data section and indexed fields from the
// topics.
func (c ContractABI) UnpackLog(out interface{}, name string, log types.Log) error {
	event, ok := c.abi.Events[name]
	if !ok {
		return fmt.Errorf("event %s not defined in %s ABI", name, c.role)
	}

	if len(log.Topics) == 0 {
		return fmt.Errorf("anonymous log cannot be decoded as %s", name)
	}
	if log.Topics[0] != event.ID {
		return fmt.Errorf("log topic does not match event %s", name)
	}

	if len(log.Data) > 0 {
		if err := c.abi.UnpackIntoInterface(out, name, log.Data); err != nil {
			return fmt.Errorf("failed to unpack %s data: %w", name, err)
		}
	}

	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	if err := abi.ParseTopics(out, indexed, log.Topics[1:]); err != nil {
		return fmt.Errorf("failed to parse %s topics: %w", name, err)
	}

	return nil
}

// Pack assembles topics and data for a named event from its decoded
// values, in the order the ABI declares them. Used by tests to build
// synthetic logs.
func (c ContractABI) Pack(name string, indexedValues []common.Hash, dataValues ...interface{}) (types.Log, error) {
	event, ok := c.abi.Events[name]
	if !ok {
		return types.Log{}, fmt.Errorf("event %s not defined in %s ABI", name, c.role)
	}

	data, err := event.Inputs.NonIndexed().Pack(dataValues...)
	if err != nil {
		return types.Log{}, fmt.Errorf("failed to pack %s data: %w", name, err)
	}

	topics := append([]common.Hash{event.ID}, indexedValues...)
	return types.Log{Topics: topics, Data: data}, nil
}
