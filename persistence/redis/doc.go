// Package redis provides a Redis-based implementation of the txsubmitter.TxStore interface.
//
// The store records every submitted transaction until its outcome is known, so a
// restarted process can resolve transactions that were in flight when it stopped.
//
// # Basic Usage
//
//	import (
//	    "github.com/redis/go-redis/v9"
//	    txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
//	    redisstore "github.com/switchboard-xyz/aptos-txsubmitter/persistence/redis"
//	)
//
//	// Create Redis client
//	client := redis.NewClient(&redis.Options{
//	    Addr: "localhost:6379",
//	})
//
//	s := txsubmitter.NewSubmitter(
//	    txsubmitter.WithTxStore(redisstore.NewTxStore(client)),
//	)
//
// # Multi-Tenant Usage
//
// Use key prefixes to isolate data for different applications or networks:
//
//	devnetStore := redisstore.NewTxStore(client, redisstore.WithTxStoreKeyPrefix("devnet"))
//	localnetStore := redisstore.NewTxStore(client, redisstore.WithTxStoreKeyPrefix("localnet"))
//
// # Redis Key Structure
//
//   - aptos-txsubmitter:tx:{hash} - Transaction record (JSON)
//   - aptos-txsubmitter:tx:status:{status} - Set of tx hashes per status
//   - aptos-txsubmitter:tx:timestamp - Sorted set of tx hashes by creation time
//
// A record's status only moves forward: submitted, then lost, then failed or
// committed. Writes that would move it back are ignored.
//
// # Recovery
//
// On application restart, call Submitter.Recover before submitting anything new.
// It waits on every record still marked submitted and stores the outcome.
//
// # Cleanup
//
// Use TxStore.DeleteOlderThan to periodically clean up old final records:
//
//	deleted, err := txStore.DeleteOlderThan(ctx, 24*time.Hour)
//
// Records still marked submitted are never removed by cleanup.
//
// # Supported Redis Configurations
//
// The store works with standalone Redis, Redis Sentinel and Redis Cluster.
// Pass the appropriate redis.UniversalClient implementation to NewTxStore.
package redis
