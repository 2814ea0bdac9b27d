// Package excel imports prediction schedules from xlsx workbooks.
//
// A workbook carries three columns: date & time, game number and expected
// winner (Joueur/Banquier). Workbooks arrive two ways: uploaded by the admin
// over Telegram, or dropped into the watch directory where a 10-second poller
// picks them up. Rows whose game number directly follows the previous row
// are skipped so back-to-back games never produce overlapping predictions.
package excel
