// Package integration defines the domain model for synchronizing local
// commerce records (customers, products, orders) with an external ERP/CRM
// platform reached through a rate-limited, OAuth2-protected REST API.
//
// The package follows the Ports & Adapters pattern: the ERPClient, TokenStore
// and TokenProvider interfaces are defined here, and concrete implementations
// live in the infrastructure layer. Value objects (ExternalContact,
// ExternalItem, ExternalSalesOrder) describe the external entity shapes
// independently of any wire format.
package integration
