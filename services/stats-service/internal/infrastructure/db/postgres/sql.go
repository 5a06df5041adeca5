package postgres

const sqlInsertHit = `
INSERT INTO hits (app, uri, ip, created)
VALUES ($1, $2, $3, $4)
RETURNING id
`
