package client

import chiTransport "github.com/dira-homes/dira/internal/transport/chi"

// Wire types shared with the server.
type (
	Listing   = chiTransport.Listing
	File      = chiTransport.File
	Result    = chiTransport.ListingWithFiles
	Publisher = chiTransport.ListingPublisher
)
