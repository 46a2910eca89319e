package protocol

// MenuItem is one configurable line of a Menu (spec.md §4.11): either
// a numeric spinner (a count of digits plus a unit suffix, e.g. "3
// players") or a fixed set of string choices (e.g. "Easy"/"Hard").
// Wire shape: { title: string, numeric: u8, if numeric: (digits:
// varint, suffix: string) else: (n: varint, strings: string[]),
// space_after: u8 }.
type MenuItem struct {
	Title string

	Numeric bool

	// Populated when Numeric is true.
	Digits int
	Suffix string

	// Populated when Numeric is false.
	Strings []string

	// SpaceAfter requests a blank line be rendered below this item,
	// matching the original menu layout's grouping of related settings.
	SpaceAfter bool
}

func (m *MenuItem) Encode(w *Writer) {
	w.WriteString(m.Title)
	w.WriteBool(m.Numeric)
	if m.Numeric {
		w.WriteVarInt(uint64(m.Digits))
		w.WriteString(m.Suffix)
	} else {
		w.WriteVarInt(uint64(len(m.Strings)))
		for _, s := range m.Strings {
			w.WriteString(s)
		}
	}
	w.WriteBool(m.SpaceAfter)
}

func DecodeMenuItem(r *Reader) (MenuItem, error) {
	var m MenuItem
	var err error
	if m.Title, err = r.ReadString(); err != nil {
		return MenuItem{}, err
	}
	if m.Numeric, err = r.ReadBool(); err != nil {
		return MenuItem{}, err
	}
	if m.Numeric {
		digits, err := r.ReadVarInt()
		if err != nil {
			return MenuItem{}, err
		}
		m.Digits = int(digits)
		if m.Suffix, err = r.ReadString(); err != nil {
			return MenuItem{}, err
		}
	} else {
		n, err := r.ReadVarInt()
		if err != nil {
			return MenuItem{}, err
		}
		m.Strings = make([]string, n)
		for i := range m.Strings {
			if m.Strings[i], err = r.ReadString(); err != nil {
				return MenuItem{}, err
			}
		}
	}
	if m.SpaceAfter, err = r.ReadBool(); err != nil {
		return MenuItem{}, err
	}
	return m, nil
}

// Menu is a named, ordered collection of MenuItem lines, sent to
// clients for game-configuration selection (spec.md §4.11). Wire
// shape: { title: string, item_count: varint, items: MenuItem[] }.
type Menu struct {
	Title string
	Items []MenuItem
}

func (m *Menu) Encode(w *Writer) {
	w.WriteString(m.Title)
	w.WriteVarInt(uint64(len(m.Items)))
	for i := range m.Items {
		m.Items[i].Encode(w)
	}
}

func DecodeMenu(r *Reader) (Menu, error) {
	var m Menu
	var err error
	if m.Title, err = r.ReadString(); err != nil {
		return Menu{}, err
	}
	n, err := r.ReadVarInt()
	if err != nil {
		return Menu{}, err
	}
	m.Items = make([]MenuItem, n)
	for i := range m.Items {
		if m.Items[i], err = DecodeMenuItem(r); err != nil {
			return Menu{}, err
		}
	}
	return m, nil
}
