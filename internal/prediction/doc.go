// Package prediction manages the scheduled prediction lifecycle.
//
// Predictions are imported from the Excel schedule, launched into the display
// channel when the source channel approaches their game number, then verified
// against subsequent results at offsets 0 to 2. A win at offset k resolves
// to ✅k️⃣; running out of offsets resolves to ❌. The schedule persists as a
// JSON file so launches and offsets survive restarts.
package prediction
