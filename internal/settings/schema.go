package settings

const Schema = `
create table if not exists settings (
	key text primary key,
	value integer not null default 0
);
`

const (
	key_tooltips_enabled     = "tooltipsEnabled"
	key_requests_last_search = "requestsLastSearch"
	key_requests_lifetime_1  = "requestsLifetime1"
	key_requests_lifetime_2  = "requestsLifetime2"
)
