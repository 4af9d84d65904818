package meshnet

// AppIdxDev is the sentinel app_idx value meaning "use the device key"
// rather than an application key. It is never a valid stored AppKey index
// and exists only so callers still speaking the raw wire convention (e.g.
// a JSON-RPC front-end) have a documented constant to parse against.
const AppIdxDev uint16 = 0x7FFF

// KeySelector picks either an application key by index or the device key.
// It replaces the APP_IDX_DEV magic integer with a tagged variant so the
// type system, not a sentinel comparison, enforces the distinction.
type KeySelector struct {
	dev   bool
	index uint16
}

// AppKeyIndex selects the application key at the given 0-based index.
func AppKeyIndex(index uint16) KeySelector {
	return KeySelector{index: index}
}

// DevKey selects the provisioner's device key.
func DevKey() KeySelector {
	return KeySelector{dev: true}
}

// IsDevKey reports whether this selector refers to the device key.
func (s KeySelector) IsDevKey() bool {
	return s.dev
}

// AppIndex returns the application key index. Only meaningful when
// IsDevKey() is false.
func (s KeySelector) AppIndex() uint16 {
	return s.index
}

// ParseKeySelector translates the raw app_idx wire convention (including
// the AppIdxDev sentinel) into a KeySelector.
func ParseKeySelector(raw uint16) KeySelector {
	if raw == AppIdxDev {
		return DevKey()
	}
	return AppKeyIndex(raw)
}
