package pubsub

type Publisher interface {
	Publish(data []byte) error
}

// LossyPublisher drops the payload instead of blocking when the topic is
// backed up.
type LossyPublisher interface {
	Publisher
	TryPublish(data []byte) bool
}

type Subscriber interface {
	Subscribe() error
}

type PubSub interface {
	Publisher
	Subscriber
}
