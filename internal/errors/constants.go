package errors

// Error message constants
const (
	ErrMsgEventNotFound = "Event not found"
	ErrMsgEventExists   = "Event already exists"
	ErrMsgBookingExists = "You have already booked this event"
	ErrMsgUserNotFound  = "User not found"
	ErrMsgEmailExists   = "This email already exists"
	ErrMsgImageUpload   = "Error uploading image"
	ErrMsgImageSize     = "Image size exceeds maximum allowed size"
	ErrMsgImageType     = "Only image files are allowed"
)
