package protocol

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventName(t *testing.T) {
	shopCreatedID := Hub.EventID("ShopCreated")
	name, ok := Hub.EventName(shopCreatedID)
	require.True(t, ok)
	assert.Equal(t, "ShopCreated", name)

	// A hub topic is not a shop topic.
	_, ok = Shop.EventName(shopCreatedID)
	assert.False(t, ok)

	// Unknown topics are reported as such.
	_, ok = Hub.EventName(common.HexToHash("0x01"))
	assert.False(t, ok)
}

func TestUnpackLog_ShopCreated(t *testing.T) {
	shop := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	owner := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	log, err := Hub.Pack("ShopCreated",
		[]common.Hash{common.BytesToHash(shop.Bytes()), common.BytesToHash(owner.Bytes())},
		"Acme", "ipfs://acme")
	require.NoError(t, err)

	var ev ShopCreated
	require.NoError(t, Hub.UnpackLog(&ev, "ShopCreated", log))

	assert.Equal(t, shop, ev.Shop)
	assert.Equal(t, owner, ev.Owner)
	assert.Equal(t, "Acme", ev.Name)
	assert.Equal(t, "ipfs://acme", ev.MetadataURI)
}

func TestUnpackLog_ProductCreated(t *testing.T) {
	log, err := Shop.Pack("ProductCreated",
		[]common.Hash{common.BigToHash(big.NewInt(7))},
		"Mug", big.NewInt(1000), big.NewInt(10), big.NewInt(2))
	require.NoError(t, err)

	var ev ProductCreated
	require.NoError(t, Shop.UnpackLog(&ev, "ProductCreated", log))

	assert.Zero(t, ev.ProductId.Cmp(big.NewInt(7)))
	assert.Equal(t, "Mug", ev.Name)
	assert.Zero(t, ev.Price.Cmp(big.NewInt(1000)))
	assert.Zero(t, ev.Stock.Cmp(big.NewInt(10)))
	assert.Zero(t, ev.CategoryId.Cmp(big.NewInt(2)))
}

func TestUnpackLog_CollectionCreated(t *testing.T) {
	log, err := Shop.Pack("CollectionCreated",
		[]common.Hash{common.BigToHash(big.NewInt(3))},
		"Featured", []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(5)})
	require.NoError(t, err)

	var ev CollectionCreated
	require.NoError(t, Shop.UnpackLog(&ev, "CollectionCreated", log))

	assert.Zero(t, ev.CollectionId.Cmp(big.NewInt(3)))
	assert.Equal(t, "Featured", ev.Name)
	require.Len(t, ev.ProductIds, 3)
	assert.Zero(t, ev.ProductIds[2].Cmp(big.NewInt(5)))
}

func TestUnpackLog_NewFeedback(t *testing.T) {
	client := common.HexToAddress("0x00000000000000000000000000000000000000dd")

	log, err := Reputation.Pack("NewFeedback",
		[]common.Hash{common.BigToHash(big.NewInt(7)), common.BytesToHash(client.Bytes())},
		uint64(0), big.NewInt(80), uint8(0), "starred", "")
	require.NoError(t, err)

	var ev NewFeedback
	require.NoError(t, Reputation.UnpackLog(&ev, "NewFeedback", log))

	assert.Zero(t, ev.AgentId.Cmp(big.NewInt(7)))
	assert.Equal(t, client, ev.ClientAddress)
	assert.Equal(t, uint64(0), ev.FeedbackIndex)
	assert.Zero(t, ev.Value.Cmp(big.NewInt(80)))
	assert.Equal(t, uint8(0), ev.ValueDecimals)
	assert.Equal(t, "starred", ev.Tag1)
	assert.Empty(t, ev.Tag2)
}

func TestUnpackLog_ValidationRequested(t *testing.T) {
	requestHash := common.HexToHash("0xfeed000000000000000000000000000000000000000000000000000000000001")
	validator := common.HexToAddress("0x00000000000000000000000000000000000000ee")

	log, err := Validation.Pack("ValidationRequested",
		[]common.Hash{requestHash, common.BigToHash(big.NewInt(9)), common.BytesToHash(validator.Bytes())},
		"ipfs://request")
	require.NoError(t, err)

	var ev ValidationRequested
	require.NoError(t, Validation.UnpackLog(&ev, "ValidationRequested", log))

	assert.Equal(t, requestHash, ev.RequestHash)
	assert.Zero(t, ev.AgentId.Cmp(big.NewInt(9)))
	assert.Equal(t, validator, ev.ValidatorAddress)
	assert.Equal(t, "ipfs://request", ev.RequestURI)
}

func TestUnpackLog_TopicMismatch(t *testing.T) {
	log, err := Shop.Pack("OrderFulfilled", []common.Hash{common.BigToHash(big.NewInt(5))})
	require.NoError(t, err)

	var ev OrderCancelled
	err = Shop.UnpackLog(&ev, "OrderCancelled", log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}
