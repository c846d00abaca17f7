// Package afc is the client for the AFC remote-filesystem service.
//
// Ownership boundary:
// - request/response correlation over one established byte stream
// - the public operation surface (directories, files, info, walk)
// - chunked file stream adapters over remote handles
package afc
