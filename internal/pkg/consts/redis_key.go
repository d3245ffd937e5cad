package consts

const (
	AggregateKey      = "daily:aggregate:"
	CollectQueueKey   = "collect:queue"
	CollectLastRunKey = "collect:last_run:"
)

const (
	CollectPairLock = "lock:collect:pair:"
)
