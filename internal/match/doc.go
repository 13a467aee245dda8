// Package match provides the record type for cricket fixtures scraped from the schedules page.
//
// A Record carries the free-form text the upstream page shows for one match block. Fields the
// page leaves out stay empty, and the detail link is a pointer so an absent anchor serializes as
// JSON null instead of an empty string.
package match
