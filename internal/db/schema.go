package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- ENTRY TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS entry SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON entry TYPE string;
    -- Raw flat text. Kept after conversion so rollback stays lossless.
    DEFINE FIELD IF NOT EXISTS content ON entry TYPE string;
    DEFINE FIELD IF NOT EXISTS is_converted ON entry TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS created_at ON entry TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS modified_at ON entry TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS entry_converted ON entry FIELDS is_converted;

    -- ==========================================================================
    -- BLOCK TABLE
    -- ==========================================================================
    -- Owned exclusively by an entry; created and deleted only through
    -- entry-level operations (conversion and rollback).
    DEFINE TABLE IF NOT EXISTS block SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS entry ON block TYPE record<entry>;
    DEFINE FIELD IF NOT EXISTS type ON block TYPE string;
    DEFINE FIELD IF NOT EXISTS content ON block TYPE string;
    DEFINE FIELD IF NOT EXISTS language ON block TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS checked ON block TYPE option<bool>;
    DEFINE FIELD IF NOT EXISTS position ON block TYPE int;
    DEFINE FIELD IF NOT EXISTS created_at ON block TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS block_entry ON block FIELDS entry;
`
