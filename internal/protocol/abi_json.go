package protocol

// Event-only ABI fragments for the protocol contracts. The indexer never
// calls contract functions, so function entries are omitted.

const hubABIJSON = `[
  {"type":"event","name":"ShopCreated","anonymous":false,"inputs":[
    {"name":"shop","type":"address","indexed":true},
    {"name":"owner","type":"address","indexed":true},
    {"name":"name","type":"string","indexed":false},
    {"name":"metadataURI","type":"string","indexed":false}]},
  {"type":"event","name":"ProtocolFeeUpdated","anonymous":false,"inputs":[
    {"name":"newFee","type":"uint256","indexed":false}]}
]`

const shopABIJSON = `[
  {"type":"event","name":"ProductCreated","anonymous":false,"inputs":[
    {"name":"productId","type":"uint256","indexed":true},
    {"name":"name","type":"string","indexed":false},
    {"name":"price","type":"uint256","indexed":false},
    {"name":"stock","type":"uint256","indexed":false},
    {"name":"categoryId","type":"uint256","indexed":false}]},
  {"type":"event","name":"ProductUpdated","anonymous":false,"inputs":[
    {"name":"productId","type":"uint256","indexed":true},
    {"name":"price","type":"uint256","indexed":false},
    {"name":"stock","type":"uint256","indexed":false},
    {"name":"metadataURI","type":"string","indexed":false}]},
  {"type":"event","name":"ProductDeactivated","anonymous":false,"inputs":[
    {"name":"productId","type":"uint256","indexed":true}]},
  {"type":"event","name":"CategoryCreated","anonymous":false,"inputs":[
    {"name":"categoryId","type":"uint256","indexed":true},
    {"name":"name","type":"string","indexed":false}]},
  {"type":"event","name":"CategoryUpdated","anonymous":false,"inputs":[
    {"name":"categoryId","type":"uint256","indexed":true},
    {"name":"name","type":"string","indexed":false},
    {"name":"metadataURI","type":"string","indexed":false}]},
  {"type":"event","name":"CollectionCreated","anonymous":false,"inputs":[
    {"name":"collectionId","type":"uint256","indexed":true},
    {"name":"name","type":"string","indexed":false},
    {"name":"productIds","type":"uint256[]","indexed":false}]},
  {"type":"event","name":"VariantAdded","anonymous":false,"inputs":[
    {"name":"productId","type":"uint256","indexed":true},
    {"name":"variantId","type":"uint256","indexed":false},
    {"name":"name","type":"string","indexed":false},
    {"name":"price","type":"uint256","indexed":false},
    {"name":"stock","type":"uint256","indexed":false}]},
  {"type":"event","name":"EmployeeAdded","anonymous":false,"inputs":[
    {"name":"employee","type":"address","indexed":true},
    {"name":"role","type":"string","indexed":false}]},
  {"type":"event","name":"EmployeeRemoved","anonymous":false,"inputs":[
    {"name":"employee","type":"address","indexed":true}]},
  {"type":"event","name":"OrderCreated","anonymous":false,"inputs":[
    {"name":"orderId","type":"uint256","indexed":true},
    {"name":"customer","type":"address","indexed":true},
    {"name":"totalAmount","type":"uint256","indexed":false}]},
  {"type":"event","name":"OrderFulfilled","anonymous":false,"inputs":[
    {"name":"orderId","type":"uint256","indexed":true}]},
  {"type":"event","name":"OrderCancelled","anonymous":false,"inputs":[
    {"name":"orderId","type":"uint256","indexed":true}]},
  {"type":"event","name":"OrderRefunded","anonymous":false,"inputs":[
    {"name":"orderId","type":"uint256","indexed":true}]},
  {"type":"event","name":"DigitalDelivery","anonymous":false,"inputs":[
    {"name":"orderId","type":"uint256","indexed":true}]},
  {"type":"event","name":"DiscountCreated","anonymous":false,"inputs":[
    {"name":"discountId","type":"uint256","indexed":true},
    {"name":"code","type":"bytes32","indexed":false},
    {"name":"basisPoints","type":"uint256","indexed":false},
    {"name":"maxUses","type":"uint256","indexed":false},
    {"name":"expiresAt","type":"uint256","indexed":false}]},
  {"type":"event","name":"DiscountUsed","anonymous":false,"inputs":[
    {"name":"discountId","type":"uint256","indexed":true}]},
  {"type":"event","name":"PaymentSplitUpdated","anonymous":false,"inputs":[
    {"name":"splitAddress","type":"address","indexed":false}]}
]`

const identityABIJSON = `[
  {"type":"event","name":"Registered","anonymous":false,"inputs":[
    {"name":"agentId","type":"uint256","indexed":true},
    {"name":"owner","type":"address","indexed":true},
    {"name":"agentURI","type":"string","indexed":false}]},
  {"type":"event","name":"URIUpdated","anonymous":false,"inputs":[
    {"name":"agentId","type":"uint256","indexed":true},
    {"name":"newURI","type":"string","indexed":false}]}
]`

const reputationABIJSON = `[
  {"type":"event","name":"NewFeedback","anonymous":false,"inputs":[
    {"name":"agentId","type":"uint256","indexed":true},
    {"name":"clientAddress","type":"address","indexed":true},
    {"name":"feedbackIndex","type":"uint64","indexed":false},
    {"name":"value","type":"int128","indexed":false},
    {"name":"valueDecimals","type":"uint8","indexed":false},
    {"name":"tag1","type":"string","indexed":false},
    {"name":"tag2","type":"string","indexed":false}]},
  {"type":"event","name":"FeedbackRevoked","anonymous":false,"inputs":[
    {"name":"agentId","type":"uint256","indexed":true},
    {"name":"clientAddress","type":"address","indexed":true},
    {"name":"feedbackIndex","type":"uint64","indexed":false}]}
]`

const validationABIJSON = `[
  {"type":"event","name":"ValidationRequested","anonymous":false,"inputs":[
    {"name":"requestHash","type":"bytes32","indexed":true},
    {"name":"agentId","type":"uint256","indexed":true},
    {"name":"validatorAddress","type":"address","indexed":true},
    {"name":"requestURI","type":"string","indexed":false}]},
  {"type":"event","name":"ValidationResponded","anonymous":false,"inputs":[
    {"name":"requestHash","type":"bytes32","indexed":true},
    {"name":"response","type":"uint8","indexed":false},
    {"name":"tag","type":"string","indexed":false}]}
]`
