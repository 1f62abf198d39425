// Package domain contains the core data types shared across services and
// repositories: customers, campaigns, orders, and communication logs.
// Types here carry no behavior beyond small helpers and never import from
// service or repository packages.
package domain
