package database

// Tables lists every record set the service owns, in creation order.
var Tables = []string{"ads", "permanent_ads", "promo_codes"}

// The unique index on ads.user_id is load-bearing: ads are hard-deleted, so
// the index exactly enforces "at most one live ad per owner" even under
// concurrent submissions.
const schema = `
CREATE TABLE IF NOT EXISTS ads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    photo TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL,
    is_premium INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS uniq_ads_user ON ads(user_id);

CREATE TABLE IF NOT EXISTS permanent_ads (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    photo TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL,
    is_premium INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS promo_codes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL UNIQUE,
    used INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
