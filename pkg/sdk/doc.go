// Package trinetra provides an embeddable Go client for the trinetra
// text classification engine backed by Valkey or Redis.
//
// The client wires the full pipeline — keyword registry, semantic
// scorer, decision engine, and persistence — into a single handle:
//
//	client, _ := trinetra.New(ctx, trinetra.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	res, _ := client.Classify(ctx, "MDMA available, home delivery")
//	if res.Category == "drug sale" {
//	    // escalate
//	}
//
// Channel monitoring persists batch scan outcomes and raises alerts
// for flagged messages:
//
//	ch, _ := client.AddChannel(ctx, "https://t.me/some_channel", "")
//	sum, _ := client.Scan(ctx, ch.ID, msgs)
//	alerts, _ := client.Alerts(ctx, trinetra.AlertStatusNew)
package trinetra
