package repository

// Schema definitions for Kestrel database.
// Compatible with both SQLite and PostgreSQL.

const schemaDisruptions = `
CREATE TABLE IF NOT EXISTS disruptions (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    flight_number TEXT NOT NULL,
    airline TEXT NOT NULL,
    departure_airport TEXT NOT NULL,
    arrival_airport TEXT NOT NULL,
    disruption_type TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_disruptions_tenant ON disruptions(tenant_id);
CREATE INDEX IF NOT EXISTS idx_disruptions_flight ON disruptions(tenant_id, flight_number);
CREATE INDEX IF NOT EXISTS idx_disruptions_created ON disruptions(tenant_id, created_at);
`

const schemaEvaluations = `
CREATE TABLE IF NOT EXISTS evaluations (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    disruption_id TEXT NOT NULL,
    flight_number TEXT NOT NULL,
    eligible INTEGER NOT NULL,
    amount TEXT NOT NULL,
    confidence INTEGER NOT NULL,
    regulation TEXT NOT NULL,
    review_required INTEGER NOT NULL DEFAULT 0,
    timestamp TIMESTAMP NOT NULL,
    result TEXT NOT NULL,
    policy_results TEXT,
    metadata TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_tenant ON evaluations(tenant_id);
CREATE INDEX IF NOT EXISTS idx_evaluations_disruption ON evaluations(tenant_id, disruption_id);
CREATE INDEX IF NOT EXISTS idx_evaluations_flight ON evaluations(tenant_id, flight_number);
CREATE INDEX IF NOT EXISTS idx_evaluations_timestamp ON evaluations(tenant_id, timestamp);
`

const schemaPolicies = `
CREATE TABLE IF NOT EXISTS policies (
    id TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    version TEXT NOT NULL,
    expression TEXT NOT NULL,
    action TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, tenant_id, version)
);

CREATE INDEX IF NOT EXISTS idx_policies_tenant ON policies(tenant_id);
CREATE INDEX IF NOT EXISTS idx_policies_enabled ON policies(tenant_id, enabled);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaDisruptions,
		schemaEvaluations,
		schemaPolicies,
	}
}
