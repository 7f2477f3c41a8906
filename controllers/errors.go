package controllers

import "errors"

// Sentinel errors yang dipakai lintas controller. Handler memetakan
// error ini ke kode HTTP: conflict -> 409, permission -> 403.
var (
	// ErrNoPermission saat role user tidak berhak atas operasi
	ErrNoPermission = errors.New("you do not have permission")

	// ErrSlotTaken saat slot (table, date, meal type) sudah terisi
	ErrSlotTaken = errors.New("table is already reserved for that date and meal type")

	// ErrUsernameTaken saat username sudah dipakai user lain
	ErrUsernameTaken = errors.New("username already exists")

	// ErrLastAdmin menjaga invariant minimal satu admin
	ErrLastAdmin = errors.New("cannot remove the last remaining admin")

	// ErrInsufficientStock membatalkan seluruh ticket saat ada satu
	// baris yang melebihi stok
	ErrInsufficientStock = errors.New("insufficient stock")
)
