package routing

// Metrics counts router activity since creation.
type Metrics struct {
	Sent        uint64
	Posted      uint64
	Handled     uint64
	Unhandled   uint64
	Enqueued    uint64
	CacheMisses uint64
}
