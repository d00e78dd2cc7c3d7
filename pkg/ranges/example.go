package ranges

// row is the compact literal form used by the bundled examples.
type row struct {
	chrom, strand string
	start, end    int
	attrs         map[string]string
	feature       string
}

func build(name string, rows []row, cols ...string) *Dataset {
	ds := &Dataset{Name: name}
	for _, c := range cols {
		ds.AddColumn(c)
	}
	for _, r := range rows {
		ds.Add(Interval{
			Chromosome: r.chrom,
			Start:      r.start,
			End:        r.end,
			Strand:     r.strand,
			Feature:    r.feature,
			Attrs:      r.attrs,
		})
	}
	return ds
}

func tf(tid, f1, f2 string) map[string]string {
	return map[string]string{"transcript_id": tid, "feature1": f1, "feature2": f2}
}

// Example1 returns four transcripts on chromosomes 1 to 3.
func Example1() *Dataset {
	return build("p1", []row{
		{"1", "+", 1, 11, tf("t1", "a", "A"), ""},
		{"1", "+", 40, 60, tf("t1", "a", "A"), ""},
		{"2", "-", 10, 25, tf("t2", "b", "B"), ""},
		{"2", "-", 70, 80, tf("t2", "b", "B"), ""},
		{"2", "+", 85, 100, tf("t3", "c", "C"), ""},
		{"2", "+", 110, 115, tf("t3", "c", "C"), ""},
		{"2", "+", 150, 180, tf("t3", "c", "C"), ""},
		{"3", "+", 140, 152, tf("t4", "d", "D"), ""},
	}, "transcript_id", "feature1", "feature2")
}

// Example2 extends Example1 with two long transcripts on chromosome 4 and a
// Feature column mixing exon and CDS rows.
func Example2() *Dataset {
	return build("p2", []row{
		{"1", "+", 1, 11, tf("t1", "1", "A"), "exon"},
		{"1", "+", 40, 60, tf("t1", "1", "A"), "exon"},
		{"2", "-", 10, 25, tf("t2", "1", "B"), "CDS"},
		{"2", "-", 70, 80, tf("t2", "1", "B"), "CDS"},
		{"2", "+", 85, 100, tf("t3", "1", "C"), "CDS"},
		{"2", "+", 110, 115, tf("t3", "2", "C"), "CDS"},
		{"2", "+", 150, 180, tf("t3", "2", "C"), "CDS"},
		{"3", "+", 140, 152, tf("t4", "2", "D"), "exon"},
		{"4", "-", 30100, 30300, tf("t5", "2", "E"), "exon"},
		{"4", "-", 30150, 30300, tf("t5", "2", "E"), "CDS"},
		{"4", "-", 30500, 30700, tf("t5", "2", "E"), "CDS"},
		{"4", "-", 30647, 30700, tf("t5", "2", "E"), "exon"},
		{"4", "+", 29850, 29900, tf("t6", "2", "F"), "CDS"},
		{"4", "+", 29970, 30000, tf("t6", "2", "F"), "CDS"},
	}, "transcript_id", "feature1", "feature2")
}

// Example3 holds six short transcripts on two chromosomes, useful for
// exercising packing.
func Example3() *Dataset {
	starts1 := []int{90, 61, 104, 228, 9, 142, 52, 149, 218, 151}
	ends1 := []int{92, 64, 113, 229, 12, 147, 57, 155, 224, 153}
	starts2 := []int{6, 27, 37, 47, 1, 7, 42, 37, 60, 80}
	ends2 := []int{8, 32, 40, 50, 5, 10, 46, 40, 70, 90}
	strands := []string{"+", "+", "+", "+", "-", "-", "-", "-", "+", "+"}
	ids1 := []string{"t1", "t1", "t1", "t1", "t2", "t2", "t2", "t2", "t3", "t3"}
	ids2 := []string{"t4", "t4", "t4", "t4", "t5", "t5", "t5", "t5", "t6", "t6"}

	var rows []row
	for i := range starts1 {
		rows = append(rows, row{"1", strands[i], starts1[i], ends1[i], map[string]string{"transcript_id": ids1[i]}, ""})
	}
	for i := range starts2 {
		rows = append(rows, row{"2", strands[i], starts2[i], ends2[i], map[string]string{"transcript_id": ids2[i]}, ""})
	}
	return build("p3", rows, "transcript_id")
}

// Examples maps the bundled dataset names to their constructors.
var Examples = map[string]func() *Dataset{
	"p1": Example1,
	"p2": Example2,
	"p3": Example3,
}
