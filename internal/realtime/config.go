package realtime

type Config struct {
	BufferSizes BufferSizes
}

type BufferSizes struct {
	// SendQueue bounds the outbound event pump. Producers block when
	// it is full; events are never dropped.
	SendQueue int
	// Events bounds how far the inbound reader runs ahead of the
	// consumer.
	Events int
}

const (
	defaultSendQueue = 256
	defaultEvents    = 256
)
