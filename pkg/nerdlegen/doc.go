/*
Package nerdlegen enumerates Nerdle equations.

# Overview

A candidate is a fixed-length string over Alphabet: the digits 1-9 and 0
followed by the operators + - * and /.
Candidates are generated in alphabet order, first character most
significant, so the first candidate of length 8 is "11111111" and the
last is "////////". Each candidate is split into a left and a right part
at every position 1..length-2; a split whose two sides are well formed
and evaluate to the same value is a Match, written as "left=right".

A split is rejected when:
  - the candidate contains two adjacent operators
  - either side starts or ends with an operator
  - either side contains a multi-digit number with a leading zero ("05")
  - either side fails to evaluate, including division by zero

Evaluation lives in the expr subpackage: integers stay exact until a
division, and "/" always produces a float.

# Basic Usage

	e := nerdlegen.New(nerdlegen.WithLength(6))
	stats, err := e.Run(ctx, os.Stdout)
	if err != nil {
	    log.Fatal(err)
	}
	log.Printf("%d equations", stats.Matches)

Each delivers matches to a callback instead of a writer:

	_, err := e.Each(ctx, func(m nerdlegen.Match) error {
	    fmt.Println(m.Left, m.Right, m.Value)
	    return nil
	})

# Concurrency

The candidate space is partitioned into shards by prefix (WithShardDepth).
Shards are scanned on a bounded worker pool (WithWorkers) and their
matches are delivered in shard order, so output is identical for any
worker count or shard depth.

# Checkpointing

With WithCheckpointStore and WithRunID, every finished shard is saved
to the store. A later run with the same run ID reuses saved shards
instead of scanning them:

	store, _ := checkpoint.NewSQLiteStore("./nerdlegen.db")
	defer store.Close()

	e := nerdlegen.New(
	    nerdlegen.WithCheckpointStore(store),
	    nerdlegen.WithRunID("full-8"),
	)

Checkpoint failures are logged and never fail a run.

# Errors

Run and Each return ErrNilContext or ErrInvalidLength for bad input,
*CancellationError when the context ends, *PanicError if a shard scan
panics, or the error returned by the callback. Evaluation errors never
escape; they only reject a split.
*/
package nerdlegen
