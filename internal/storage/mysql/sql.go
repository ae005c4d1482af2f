package mysql

// Trips are an ordered collection keyed by id; created_at then id gives the order.
const upsertTripSQL = `
INSERT INTO trips
  (id, hotel, check_in_date, check_out_date, number_of_guests, total_price, status, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel            = VALUES(hotel),
  check_in_date    = VALUES(check_in_date),
  check_out_date   = VALUES(check_out_date),
  number_of_guests = VALUES(number_of_guests),
  total_price      = VALUES(total_price),
  status           = VALUES(status),
  updated_at       = CURRENT_TIMESTAMP
`

const listTripsSQL = `
SELECT
  id,
  hotel,
  check_in_date,
  check_out_date,
  number_of_guests,
  total_price,
  status,
  created_at
FROM trips
ORDER BY created_at ASC, id ASC
`

const updateTripStatusSQL = `
UPDATE trips SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

const deleteTripSQL = `DELETE FROM trips WHERE id = ?`
