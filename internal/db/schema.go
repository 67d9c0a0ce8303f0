package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- SESSION TABLE
    -- ==========================================================================
    -- One record per processed conversation. Append-only: records are never
    -- updated or deleted by the application.
    DEFINE TABLE IF NOT EXISTS session SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS seq ON session TYPE int;
    DEFINE FIELD IF NOT EXISTS doctor ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS patient ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS date ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS transcript ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS summary ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS tags ON session TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS created_at ON session TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS session_seq_idx ON session FIELDS seq UNIQUE;

    -- ==========================================================================
    -- SEQUENCE TABLE
    -- ==========================================================================
    -- Single counter record seq:session. Incremented atomically per request,
    -- so concurrent pipeline runs can never race to the same session ID.
    DEFINE TABLE IF NOT EXISTS seq SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS next ON seq TYPE int DEFAULT 0;

    -- ==========================================================================
    -- KNOWLEDGE TABLE
    -- ==========================================================================
    -- Question/answer reference material for the related-knowledge section
    -- of rendered reports, retrieved by embedding similarity to the summary.
    DEFINE TABLE IF NOT EXISTS knowledge SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS question ON knowledge TYPE string;
    DEFINE FIELD IF NOT EXISTS answer ON knowledge TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON knowledge TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS created_at ON knowledge TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS knowledge_embedding ON knowledge FIELDS embedding HNSW DIMENSION 384 DIST COSINE TYPE F32;
`
