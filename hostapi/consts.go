package hostapi

// Win32 values as a 32-bit guest sees them.
const (
	MaxPath = 260

	ErrorSuccess              = 0
	ErrorFileNotFound         = 2
	ErrorInvalidHandle        = 6
	ErrorNotEnoughMemory      = 8
	ErrorNoMoreFiles          = 18
	ErrorInvalidParameter     = 87
	ErrorBufferOverflow       = 111
	ErrorInsufficientBuffer   = 122
	ErrorMoreData             = 234
	ErrorNotOwner             = 288
	ErrorNoUnicodeTranslation = 1113

	True  = 1
	False = 0

	WaitObject0 = 0
	WaitTimeout = 0x102
	Infinite    = 0xFFFFFFFF

	GMemFixed    = 0x0000
	GMemZeroInit = 0x0040

	CPUTF8 = 65001

	MBErrInvalidChars = 0x08
	WCErrInvalidChars = 0x80

	IDOK = 1

	FileAttributeDirectory = 0x10
	FileAttributeNormal    = 0x80

	RegCreatedNewKey     = 1
	RegOpenedExistingKey = 2

	// WIN32_FIND_DATA: u32 attributes followed by a MAX_PATH name.
	FindDataSize       = 4 + MaxPath
	findDataNameOffset = 4

	// SYSTEMTIME: eight u16 fields.
	SystemTimeSize = 16

	// CRITICAL_SECTION holds the handle in its first slot.
	criticalSectionSlot = 0
)
