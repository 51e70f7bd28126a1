package idutil

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init sets the snowflake node of this process. Processes sharing a database
// must use distinct node ids.
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}

	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// NewID returns a new time ordered unique id.
func NewID() int64 {
	mu.Lock()
	defer mu.Unlock()

	if node == nil {
		n, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		node = n
	}

	return node.Generate().Int64()
}
