package content

var IntegerBasics = Document{
	Title:    "Integers (int) in Python",
	Subtitle: "A complete guide to working with whole numbers",
	Sections: []Section{
		{
			Heading: "Introduction",
			Paragraphs: []string{
				"Integers are one of the fundamental data types in Python, representing numbers without a decimal point.",
			},
		},
		{
			Heading: "Creating integers",
			Paragraphs: []string{
				"Integers can be positive, negative or zero, for example 42, -17, 0 and 10000.",
			},
			Examples: []CodeExample{
				{Caption: "Direct assignment", Code: "age = 25\ntemperature = -10\nzero = 0"},
				{Caption: "Arithmetic", Code: "result = 10 + 5  # 15\ndifference = 20 - 7  # 13"},
				{Caption: "Conversion from other types", Code: "number_int = int(\"42\")  # 42\nint_number = int(3.14)  # 3"},
			},
		},
		{
			Heading: "Operations",
			Examples: []CodeExample{
				{Caption: "Arithmetic", Code: "a = 10\nb = 3\n\na + b   # 13\na - b   # 7\na * b   # 30\na / b   # 3.333333\na // b  # 3\na % b   # 1\na ** b  # 1000"},
				{Caption: "Comparison", Code: "x = 5\ny = 10\n\nx == y  # False\nx != y  # True\nx < y   # True\nx >= y  # False"},
				{Caption: "Bitwise", Code: "a = 5  # 101\nb = 3  # 011\n\na & b   # 1\na | b   # 7\na ^ b   # 6\n~a      # -6\na << 1  # 10\na >> 1  # 2"},
			},
		},
		{
			Heading: "Type conversion",
			Paragraphs: []string{
				"The int() function converts strings, floats and booleans to integers and accepts an optional base.",
			},
			Examples: []CodeExample{
				{Caption: "To int", Code: "int(\"123\")     # 123\nint(3.14)       # 3\nint(True)       # 1\nint(\"1010\", 2) # 10"},
				{Caption: "From int", Code: "str(42)    # \"42\"\nfloat(42)  # 42.0\nbool(42)   # True\nbool(0)    # False"},
			},
		},
	},
}
