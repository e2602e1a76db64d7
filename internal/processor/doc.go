// Package processor contains the pipeline that turns manga pages into
// translated, optionally scored text. It wires the OCR extractor, the
// translator and the BLEU evaluator together, runs them strictly in
// sequence and prints the result for the command line.
package processor
