// Package client is a Go SDK for the dira HTTP API.
//
// Quick start:
//
//	c, err := client.New("https://api.dira.example")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := c.Search().
//	    Town("Haifa").
//	    Types("apartment", "penthouse").
//	    Min("price", 1_000_000).
//	    Max("price", 2_500_000).
//	    Bool("hasSafeRoom", true).
//	    Do(ctx)
package client
