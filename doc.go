// setl is the Sparkify ETL kit. It turns the raw song catalog and the raw
// user-activity logs into the five analytical warehouse tables: the songplays
// fact table and the songs, artists, users, and time dimensions.
//
// The pipeline is a single batch pass over the full raw corpus, and every run
// is a complete rebuild - each destination table is fully materialized in
// memory and then handed to a Writer which replaces whatever was there
// before. The stages are:
//
// 1. Source
//
//    A Source yields raw records one at a time. Raw records are JSON objects
//    decoded to map[string]interface{}; where they live (local files, S3
//    objects, generated test data) is a Source implementation detail. See the
//    file, aws/s3, and fake subpackages.
//
// 2. Normalizers
//
//    The CatalogNormalizer projects song and artist dimension rows out of raw
//    catalog records. The EventNormalizer keeps only "NextSong" page events
//    and projects user dimension rows out of them. Both deduplicate on full
//    row equality - two rows that differ in any column are both kept. A raw
//    record missing a required field is a MalformedRecordError; the pipeline
//    either skips and counts it or aborts, depending on configuration.
//
// 3. Time derivation
//
//    BuildTimeTable converts each event's epoch-millisecond timestamp to a
//    UTC civil timestamp and derives hour, day, week, month, year and weekday
//    from it. Derivation is deterministic and independent of the system
//    time zone.
//
// 4. Fact assembly
//
//    The raw event stream carries song title, artist name and track length
//    rather than catalog identifiers, so the CatalogIndex is built once per
//    run over the complete catalog and probed once per event to resolve
//    (song_id, artist_id). Events that match zero or several catalog entries
//    still produce a fact row, with null identifiers.
//
// 5. Writer
//
//    A Writer persists one fully materialized table, optionally segmented by
//    partition columns. The file, boltdb and postgres subpackages provide
//    implementations; WriteTable must be atomic per table from a reader's
//    perspective.
package etl
