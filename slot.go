// seehuhn.de/go/pageview - progressive rendering of PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pageview

import "image"

// Slot holds an image which may not exist yet, together with a placeholder
// to show in the meantime.
//
// A single callback can be registered to learn when the main image is set.
// Registering a new callback replaces the previous one.
type Slot struct {
	main        image.Image
	placeholder image.Image
	onAvailable func()
}

// NewSlot returns an empty slot with the given placeholder, which may be nil.
func NewSlot(placeholder image.Image) *Slot {
	return &Slot{placeholder: placeholder}
}

// SetImage stores img as the main image, dropping the previous one.
// If a callback is registered, it is called before SetImage returns.
// The registration stays in place.
//
// SetImage(nil) is the same as Clear.
func (s *Slot) SetImage(img image.Image) {
	if img == nil {
		s.Clear()
		return
	}
	s.main = img
	if s.onAvailable != nil {
		s.onAvailable()
	}
}

// Clear drops the main image.  The callback is not called.
func (s *Slot) Clear() {
	s.main = nil
}

// Image returns the main image, or nil if it is not available.
func (s *Slot) Image() image.Image {
	return s.main
}

// Placeholder returns the placeholder image, which may be nil.
func (s *Slot) Placeholder() image.Image {
	return s.placeholder
}

// SetPlaceholder replaces the placeholder image.
func (s *Slot) SetPlaceholder(img image.Image) {
	s.placeholder = img
}

// IsAvailable reports whether the main image is present.
func (s *Slot) IsAvailable() bool {
	return s.main != nil
}

// Display returns the image to show: the main image if available,
// otherwise the placeholder.
func (s *Slot) Display() image.Image {
	if s.main != nil {
		return s.main
	}
	return s.placeholder
}

// OnAvailable registers f to be called whenever a main image is set.
// A nil f removes the registration.
func (s *Slot) OnAvailable(f func()) {
	s.onAvailable = f
}
