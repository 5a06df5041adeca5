package postgres

const eventColumns = `
SELECT e.id, e.title, e.annotation, e.description,
       c.id, c.name, u.id, u.name,
       e.lat, e.lon, e.event_date, e.created_on, e.published_on,
       e.paid, e.participant_limit, e.request_moderation, e.state, e.confirmed_requests
FROM events e
JOIN categories c ON c.id = e.category_id
JOIN users u ON u.id = e.initiator_id`

const selectEventSQL = eventColumns + `
WHERE e.id = $1`

// event row first, request rows after it
const lockEventSQL = eventColumns + `
WHERE e.id = $1
FOR UPDATE OF e`

const insertEventSQL = `
INSERT INTO events (
  title, annotation, description, category_id, initiator_id, lat, lon,
  event_date, created_on, paid, participant_limit, request_moderation, state
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
RETURNING id`

const updateEventSQL = `
UPDATE events SET
  title = $2, annotation = $3, description = $4, category_id = $5,
  lat = $6, lon = $7, event_date = $8, published_on = $9, paid = $10,
  participant_limit = $11, request_moderation = $12, state = $13
WHERE id = $1`

const userExistsSQL = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
const categoryExistsSQL = `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`

const requestColumns = `SELECT id, event_id, requester_id, status, created FROM requests`

const hasActiveRequestSQL = `
SELECT EXISTS(
  SELECT 1 FROM requests
  WHERE event_id = $1 AND requester_id = $2 AND status <> 'CANCELED'
)`

const insertRequestSQL = `
INSERT INTO requests (event_id, requester_id, status, created)
VALUES ($1, $2, $3, $4)
RETURNING id`

const lockRequestsSQL = requestColumns + `
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE`

const setRequestStatusSQL = `UPDATE requests SET status = $1 WHERE id = ANY($2)`

const adjustConfirmedSQL = `
UPDATE events SET confirmed_requests = confirmed_requests + $2
WHERE id = $1`

const setConfirmedSQL = `UPDATE events SET confirmed_requests = $2 WHERE id = $1`

const countConfirmedSQL = `
SELECT COUNT(*) FROM requests
WHERE event_id = $1 AND status = 'CONFIRMED'`

const insertOutboxSQL = `
INSERT INTO outbox (id, message_id, trace_id, routing_key, payload, status, occurred_at, next_retry_at)
VALUES ($1, $2, $3, $4, $5, 'pending', $6, $6)`
